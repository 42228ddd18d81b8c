package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ember-app/ember-go/internal/realtime"
)

func newListenCmd(app *app) *cobra.Command {
	var roomID string

	cmd := &cobra.Command{
		Use:   "listen",
		Short: "Connect to the realtime service and print inbound events",
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()

			offMessage := app.realtime.On(realtime.EventNewMessage, func(env realtime.Envelope) {
				payload, err := realtime.ParsePayload(env)
				if err != nil {
					return
				}
				msg := payload.(realtime.MessagePayload)
				fmt.Fprintf(out, "[%s] %s: %s\n", msg.ChatID, msg.SenderID, msg.Text)
			})
			defer offMessage()

			offTyping := app.realtime.On(realtime.EventTyping, func(env realtime.Envelope) {
				payload, err := realtime.ParsePayload(env)
				if err != nil {
					return
				}
				typing := payload.(realtime.TypingPayload)
				if typing.IsTyping {
					fmt.Fprintf(out, "[%s] %s is typing...\n", typing.ChatID, typing.UserID)
				}
			})
			defer offTyping()

			offReceipt := app.realtime.On(realtime.EventReadReceipt, func(env realtime.Envelope) {
				payload, err := realtime.ParsePayload(env)
				if err != nil {
					return
				}
				receipt := payload.(realtime.ReadReceiptPayload)
				fmt.Fprintf(out, "[%s] read by %s\n", receipt.ChatID, receipt.ReaderID)
			})
			defer offReceipt()

			if err := app.realtime.Connect(cmd.Context()); err != nil {
				return err
			}
			defer app.realtime.Disconnect()

			if roomID != "" {
				app.realtime.JoinRoom(roomID)
			}

			fmt.Fprintln(out, "Listening, press Ctrl+C to stop")

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
			select {
			case <-sigCh:
			case <-cmd.Context().Done():
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&roomID, "room", "", "chat room to join")

	return cmd
}
