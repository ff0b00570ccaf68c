// internal/raydium/http.go
package raydium

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/cenkalti/backoff/v5"
	"go.uber.org/zap"
)

// rawEnvelope хранит разобранный envelope вместе с исходными байтами ответа:
// transaction endpoint принимает swapResponse в неизменном виде
type rawEnvelope struct {
	apiResponse
	raw json.RawMessage
}

// getEnvelope выполняет GET запрос с retry и разбирает envelope ответа
func (b *Builder) getEnvelope(ctx context.Context, rawURL string, params url.Values) (*apiResponse, error) {
	envelope, err := b.getEnvelopeRaw(ctx, rawURL, params)
	if err != nil {
		return nil, err
	}
	return &envelope.apiResponse, nil
}

// getEnvelopeRaw - как getEnvelope, но сохраняет исходное тело ответа
func (b *Builder) getEnvelopeRaw(ctx context.Context, rawURL string, params url.Values) (*rawEnvelope, error) {
	if len(params) > 0 {
		rawURL = rawURL + "?" + params.Encode()
	}
	return b.doEnvelope(ctx, http.MethodGet, rawURL, nil)
}

// postEnvelope выполняет POST запрос с JSON телом
func (b *Builder) postEnvelope(ctx context.Context, rawURL string, payload interface{}) (*apiResponse, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}
	envelope, err := b.doEnvelope(ctx, http.MethodPost, rawURL, body)
	if err != nil {
		return nil, err
	}
	return &envelope.apiResponse, nil
}

// doEnvelope выполняет запрос с учетом rate limit и экспоненциальным backoff.
// Повторяются только сетевые ошибки и 5xx; ошибки уровня API не повторяются.
func (b *Builder) doEnvelope(ctx context.Context, method, rawURL string, body []byte) (*rawEnvelope, error) {
	operation := func() (*rawEnvelope, error) {
		b.limiter.Take()

		var reader io.Reader
		if body != nil {
			reader = bytes.NewReader(body)
		}

		req, err := http.NewRequestWithContext(ctx, method, rawURL, reader)
		if err != nil {
			return nil, backoff.Permanent(fmt.Errorf("create request: %w", err))
		}
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		start := time.Now()
		resp, err := b.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("%w: execute request: %w", ErrProviderUnavailable, err)
		}
		defer resp.Body.Close()

		b.logger.Debug("api request completed",
			zap.String("method", method),
			zap.String("url", rawURL),
			zap.Int("status", resp.StatusCode),
			zap.Duration("duration", time.Since(start)))

		raw, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("%w: read response: %w", ErrProviderUnavailable, err)
		}

		if resp.StatusCode >= 500 {
			return nil, fmt.Errorf("%w: status code %d, body: %s",
				ErrProviderUnavailable, resp.StatusCode, string(raw))
		}
		if resp.StatusCode != http.StatusOK {
			return nil, backoff.Permanent(fmt.Errorf("unexpected status code: %d, body: %s",
				resp.StatusCode, string(raw)))
		}

		envelope := &rawEnvelope{raw: raw}
		if err := json.Unmarshal(raw, &envelope.apiResponse); err != nil {
			return nil, backoff.Permanent(fmt.Errorf("decode response: %w", err))
		}

		if !envelope.Success {
			// Неуспешный envelope - осмысленный ответ API, повтор не поможет
			return nil, backoff.Permanent(&APIError{
				ID:      envelope.ID,
				Message: envelope.Msg,
				Status:  resp.StatusCode,
			})
		}

		return envelope, nil
	}

	envelope, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxTries(b.opts.Retries+1),
	)
	if err != nil {
		return nil, err
	}
	return envelope, nil
}

// decodeData разбирает поле data из envelope в целевую структуру
func decodeData(envelope *apiResponse, target interface{}) error {
	if len(envelope.Data) == 0 || string(envelope.Data) == "null" {
		return fmt.Errorf("empty data in response id=%s", envelope.ID)
	}
	if err := json.Unmarshal(envelope.Data, target); err != nil {
		return fmt.Errorf("decode data: %w", err)
	}
	return nil
}
