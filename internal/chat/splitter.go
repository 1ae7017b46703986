package chat

import "strings"

const (
	DefaultChunkSize = 300
	DefaultSeparator = "\n\n"
)

// Splitter cuts text on Separator and packs the pieces back together into
// chunks of at most ChunkSize characters. A single piece longer than ChunkSize
// is kept whole.
type Splitter struct {
	ChunkSize int
	Separator string
}

func DefaultSplitter() Splitter {
	return Splitter{ChunkSize: DefaultChunkSize, Separator: DefaultSeparator}
}

func (s Splitter) Split(text string) []string {
	size := s.ChunkSize
	if size <= 0 {
		size = DefaultChunkSize
	}
	sep := s.Separator
	if sep == "" {
		sep = DefaultSeparator
	}

	var chunks []string
	var current []string
	length := 0

	flush := func() {
		if len(current) > 0 {
			chunks = append(chunks, strings.Join(current, sep))
			current = current[:0]
			length = 0
		}
	}

	for _, piece := range strings.Split(text, sep) {
		piece = strings.TrimSpace(piece)
		if piece == "" {
			continue
		}
		extra := len(piece)
		if len(current) > 0 {
			extra += len(sep)
		}
		if length+extra > size {
			flush()
			extra = len(piece)
		}
		current = append(current, piece)
		length += extra
	}
	flush()
	return chunks
}
