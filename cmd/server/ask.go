package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"blgs-backend/internal/models"
)

const defaultChatEndpoint = "http://localhost:8080/api/chat"

func askCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ask <message>",
		Short: "Send one chat message to a running server and print the reply",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			server, _ := cmd.Flags().GetString("server")
			historyPath, _ := cmd.Flags().GetString("history")
			conversationID, _ := cmd.Flags().GetString("conversation")

			req := models.ChatRequest{
				Message:        strings.Join(args, " "),
				History:        []models.ChatTurn{},
				ConversationID: conversationID,
			}
			if historyPath != "" {
				history, err := readHistory(historyPath)
				if err != nil {
					return err
				}
				req.History = history
			}

			client := &http.Client{Timeout: 2 * time.Minute}
			status, body, err := postChat(cmd.Context(), client, server, req)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "STATUS: %d\n", status)
			fmt.Fprintln(out, prettyJSON(body))
			if status < 200 || status >= 300 {
				return fmt.Errorf("server returned status %d", status)
			}
			return nil
		},
	}
	cmd.Flags().String("server", defaultChatEndpoint, "chat endpoint URL")
	cmd.Flags().String("history", "", "JSON file with prior turns")
	cmd.Flags().String("conversation", "", "conversation id for server-side history")
	return cmd
}

func postChat(ctx context.Context, client *http.Client, endpoint string, req models.ChatRequest) (int, []byte, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	payload, err := json.Marshal(req)
	if err != nil {
		return 0, nil, fmt.Errorf("encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return 0, nil, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(httpReq)
	if err != nil {
		return 0, nil, fmt.Errorf("problem with request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("read response: %w", err)
	}
	return resp.StatusCode, body, nil
}

func readHistory(path string) ([]models.ChatTurn, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read history: %w", err)
	}
	var history []models.ChatTurn
	if err := json.Unmarshal(raw, &history); err != nil {
		return nil, fmt.Errorf("parse history: %w", err)
	}
	return history, nil
}

func prettyJSON(body []byte) string {
	var buf bytes.Buffer
	if err := json.Indent(&buf, body, "", "  "); err != nil {
		return string(body)
	}
	return buf.String()
}
