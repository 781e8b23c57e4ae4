package redis

import (
	"context"
	"strconv"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ResultsChannel carries the id of every quiz that received a new result.
const ResultsChannel = "quiz:results"

// ResultNotifier announces submissions to every instance over Redis pub/sub.
type ResultNotifier struct {
	client *redis.Client
}

func NewResultNotifier(client *redis.Client) *ResultNotifier {
	return &ResultNotifier{client: client}
}

func (n *ResultNotifier) ResultSubmitted(ctx context.Context, quizID int64) error {
	return n.client.Publish(ctx, ResultsChannel, strconv.FormatInt(quizID, 10)).Err()
}

// Notifiable receives quiz ids relayed from the results channel.
type Notifiable interface {
	Notify(quizID int64)
}

// Relay subscribes to the results channel and forwards announcements to a
// local hub until ctx is cancelled.
type Relay struct {
	client *redis.Client
	target Notifiable
	log    *zap.Logger
}

func NewRelay(client *redis.Client, target Notifiable, log *zap.Logger) *Relay {
	if log == nil {
		log = zap.NewNop()
	}
	return &Relay{client: client, target: target, log: log}
}

// Run blocks until ctx is done. The subscription is confirmed before ready is
// closed so callers can publish without racing the subscribe.
func (r *Relay) Run(ctx context.Context, ready chan<- struct{}) error {
	sub := r.client.Subscribe(ctx, ResultsChannel)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		if ready != nil {
			close(ready)
		}
		return err
	}
	if ready != nil {
		close(ready)
	}

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			quizID, err := strconv.ParseInt(msg.Payload, 10, 64)
			if err != nil {
				r.log.Warn("ignoring malformed result announcement", zap.String("payload", msg.Payload))
				continue
			}
			r.target.Notify(quizID)
		}
	}
}
