package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newChatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chat [QUESTION...]",
		Short: "Ask the flight assistant",
		Long:  "Ask the flight assistant a question. Without arguments, questions are read line by line until EOF or \"exit\".",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient(cmd)
			if err != nil {
				return err
			}

			if len(args) > 0 {
				answer, err := c.Chat(cmd.Context(), strings.Join(args, " "))
				if err != nil {
					return err
				}
				printMessage(cmd, answer)
				return nil
			}

			out := cmd.OutOrStdout()
			scanner := bufio.NewScanner(cmd.InOrStdin())
			for {
				fmt.Fprint(out, "> ")
				if !scanner.Scan() {
					fmt.Fprintln(out)
					return scanner.Err()
				}
				question := strings.TrimSpace(scanner.Text())
				if question == "" {
					continue
				}
				if question == "exit" || question == "quit" {
					return nil
				}

				answer, err := c.Chat(cmd.Context(), question)
				if err != nil {
					fmt.Fprintf(out, "Error: %v\n", err)
					continue
				}
				fmt.Fprintln(out, answer)
			}
		},
	}
}
