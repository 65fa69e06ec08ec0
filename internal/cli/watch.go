package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/spf13/cobra"

	"github.com/shaiso/Releaser/internal/mq"
)

var errNoBroker = errors.New("watching events requires --amqp-url or " + EnvAMQPURL)

func newWatchCmd(app *App) *cobra.Command {
	var pipeline string

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Print release events as they are published",
		Args: func(cmd *cobra.Command, args []string) error {
			return configErr(cobra.NoArgs(cmd, args))
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.flags.AMQPURL == "" {
				return configErr(errNoBroker)
			}

			logger := app.log()
			conn, err := mq.NewConnection(app.flags.AMQPURL, logger)
			if err != nil {
				return err
			}
			defer conn.Close()

			out := app.output()
			pattern := mq.WatchPattern(pipeline)

			consumer := mq.NewConsumer(conn, logger, mq.ConsumerConfig{
				Setup: func(ch *amqp.Channel) (string, error) {
					return mq.DeclareWatchQueue(ch, pattern)
				},
				Handler: func(_ context.Context, msg *mq.Message) error {
					if out.IsJSON() {
						return out.JSON(msg)
					}
					line, err := formatEvent(msg)
					if err != nil {
						return err
					}
					out.Line("%s", line)
					return nil
				},
			})

			logger.Info("watching release events", "pattern", pattern)

			err = consumer.Start(cmd.Context())
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}

	cmd.Flags().StringVar(&pipeline, "pipeline", "", "Only events of this pipeline")

	return cmd
}

// formatEvent превращает событие в строку для терминала.
func formatEvent(msg *mq.Message) (string, error) {
	ts := msg.Timestamp.Local().Format(time.TimeOnly)

	switch msg.Type {
	case mq.MessageTypeRunStarted, mq.MessageTypeRunFinished:
		p, err := mq.ParsePayload[mq.RunPayload](msg)
		if err != nil {
			return "", err
		}
		line := fmt.Sprintf("%s %s %s %s %s", ts, p.Pipeline, p.Version, msg.Type, p.Status)
		if p.FailedStep != "" {
			line += fmt.Sprintf(" at %s: %s", p.FailedStep, p.Error)
		}
		return line, nil

	case mq.MessageTypeStepFinished:
		p, err := mq.ParsePayload[mq.StepPayload](msg)
		if err != nil {
			return "", err
		}
		target := p.Host
		if target == "" {
			target = "local"
		}
		line := fmt.Sprintf("%s %s [%d] %s on %s %s (%dms)", ts, p.Pipeline, p.Index, p.Step, target, p.Status, p.DurationMs)
		if p.ExitCode != 0 {
			line += fmt.Sprintf(" exit %d", p.ExitCode)
		}
		return line, nil

	default:
		return "", fmt.Errorf("unknown event type %q", msg.Type)
	}
}
