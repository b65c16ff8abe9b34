package usecase_test

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/m-mizutani/gt"
)

func TestHandleInbound_PerUserSerialization(t *testing.T) {
	ctx := context.Background()

	t.Run("exactly one concurrent message consumes the pending confirmation", func(t *testing.T) {
		env := newTestEnv(t)
		env.suggester.suggest = func(ctx context.Context, transcription string, existing []string) ([]string, error) {
			return []string{"groceries"}, nil
		}

		_, err := env.uc.HandleInbound(ctx, audioMessage(testUser, "https://media.example.com/ME1"))
		gt.NoError(t, err).Required()
		gt.Bool(t, env.uc.HasPending(testUser)).True()

		bodies := []string{"food", "drinks", "errands", "chores"}
		replies := make([]string, len(bodies))
		errs := make([]error, len(bodies))

		var wg sync.WaitGroup
		for i, body := range bodies {
			wg.Add(1)
			go func(i int, body string) {
				defer wg.Done()
				replies[i], errs[i] = env.uc.HandleInbound(ctx, textMessage(testUser, body))
			}(i, body)
		}
		wg.Wait()

		for _, err := range errs {
			gt.NoError(t, err)
		}

		tagged := 0
		for _, reply := range replies {
			if strings.HasPrefix(reply, "Tagged with:") {
				tagged++
			}
		}
		gt.Value(t, tagged).Equal(1)
		gt.Bool(t, env.uc.HasPending(testUser)).False()
	})

	t.Run("interleaved turns keep the window bounded", func(t *testing.T) {
		env := newTestEnv(t)

		errs := make([]error, 20)

		var wg sync.WaitGroup
		for i := 0; i < 20; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, errs[i] = env.uc.Answer(ctx, testUser, fmt.Sprintf("parallel message %d", i))
			}(i)
		}
		wg.Wait()

		for _, err := range errs {
			gt.NoError(t, err)
		}

		gt.Value(t, env.uc.WindowSize(testUser)).Equal(10)
	})
}
