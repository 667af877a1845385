// Package translate turns text into the user's target language through the
// Groq chat API. Batches go out as one marker-tagged request so a whole
// trivia game costs a single round trip.
package translate

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/avrudenko/lingvobot/internal/groq"
	"github.com/avrudenko/lingvobot/internal/lang"
	"github.com/avrudenko/lingvobot/internal/retry"
	"github.com/avrudenko/lingvobot/pkg/logger"
)

const (
	singleMaxTokens = 1024
	batchMaxTokens  = 4096
	// Lower temperature keeps translations consistent.
	temperature = 0.3
)

type Translator struct {
	client  *groq.Client
	policy  retry.Policy
	timeout time.Duration
}

func New(client *groq.Client, policy retry.Policy, timeout time.Duration) *Translator {
	return &Translator{
		client:  client,
		policy:  policy,
		timeout: timeout,
	}
}

// Translate converts one text to the target language.
func (t *Translator) Translate(ctx context.Context, text, targetCode string) (string, error) {
	languageName := lang.NameFor(targetCode)

	system := fmt.Sprintf(
		"You are a translator. Translate the following text to %s. "+
			"Only provide the translation, no explanations or additional text.",
		languageName,
	)

	return retry.Do(ctx, t.policy, func(ctx context.Context) (string, error) {
		callCtx, cancel := context.WithTimeout(ctx, t.timeout)
		defer cancel()
		return t.client.ChatCompletion(callCtx, system, text, temperature, singleMaxTokens)
	})
}

// TranslateBatch translates texts in one request, preserving order and
// count. Each input is tagged with a [N] marker so the free-text response
// can be matched back by marker; positions the model dropped fall back to
// the original text. The result always has exactly len(texts) entries.
func (t *Translator) TranslateBatch(ctx context.Context, texts []string, targetCode string) ([]string, error) {
	if len(texts) == 0 {
		return []string{}, nil
	}

	languageName := lang.NameFor(targetCode)

	var sb strings.Builder
	for i, text := range texts {
		if i > 0 {
			sb.WriteByte('\n')
		}
		fmt.Fprintf(&sb, "[%d] %s", i, text)
	}

	system := fmt.Sprintf(
		"You are a translator. Translate each numbered item to %s. "+
			"Keep the same [N] markers and provide ONLY the translations, one per line. "+
			"Do not add explanations or additional text.",
		languageName,
	)

	// Batches carry far more text than a chat message; double the timeout.
	response, err := retry.Do(ctx, t.policy, func(ctx context.Context) (string, error) {
		callCtx, cancel := context.WithTimeout(ctx, 2*t.timeout)
		defer cancel()
		return t.client.ChatCompletion(callCtx, system, sb.String(), temperature, batchMaxTokens)
	})
	if err != nil {
		return nil, err
	}

	return parseBatch(response, texts), nil
}

// parseBatch maps the model's line-oriented response back onto the input
// positions. Lines with a parseable [N] marker land at position N; unmarked
// lines fill the next open slot. Missing positions keep the original text,
// surplus lines are dropped.
func parseBatch(response string, texts []string) []string {
	result := make([]string, len(texts))
	filled := make([]bool, len(texts))

	next := 0
	for _, line := range strings.Split(response, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if idx, text, ok := splitMarker(line); ok && idx >= 0 && idx < len(texts) && !filled[idx] {
			result[idx] = text
			filled[idx] = true
			continue
		}

		for next < len(texts) && filled[next] {
			next++
		}
		if next >= len(texts) {
			// More lines than requested; ignore the extras.
			continue
		}
		if _, text, ok := splitMarker(line); ok {
			line = text
		}
		result[next] = line
		filled[next] = true
	}

	missing := 0
	for i := range texts {
		if !filled[i] || result[i] == "" {
			result[i] = texts[i]
			missing++
		}
	}
	if missing > 0 {
		logger.Warn("Batch translation came back incomplete, padded with originals",
			"requested", len(texts), "missing", missing)
	}

	return result
}

// splitMarker strips a leading "[N]" tag, returning the index and the rest.
func splitMarker(line string) (int, string, bool) {
	if !strings.HasPrefix(line, "[") {
		return 0, "", false
	}
	end := strings.IndexByte(line, ']')
	if end < 0 {
		return 0, "", false
	}
	idx, err := strconv.Atoi(strings.TrimSpace(line[1:end]))
	if err != nil {
		return 0, "", false
	}
	return idx, strings.TrimSpace(line[end+1:]), true
}
