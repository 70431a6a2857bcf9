package live

import (
	"context"
	"fmt"

	"github.com/ayam04/game-rec-live/shared"
	"go.uber.org/zap"
	"google.golang.org/genai"
)

type dialFunc func(ctx context.Context, cc *genai.ClientConfig, model string, lc *genai.LiveConnectConfig) (liveConn, error)

// Client opens live sessions. It holds no connection of its own; each
// Connect builds the genai client variant the config calls for.
type Client struct {
	logger shared.LoggerAdapter
	apiKey string
	dial   dialFunc
}

func NewClient(logger shared.LoggerAdapter, apiKey string) (*Client, error) {
	if logger == nil {
		return nil, shared.ErrNoLogger
	}
	if apiKey == "" {
		return nil, shared.ErrNoAPIKey
	}
	return &Client{
		logger: logger,
		apiKey: apiKey,
		dial:   dialGenAI,
	}, nil
}

func dialGenAI(ctx context.Context, cc *genai.ClientConfig, model string, lc *genai.LiveConnectConfig) (liveConn, error) {
	gc, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("creating genai client: %w", err)
	}
	sess, err := gc.Live.Connect(ctx, model, lc)
	if err != nil {
		return nil, fmt.Errorf("connecting to %s: %w", model, err)
	}
	return sess, nil
}

// Connect opens a session for cfg. Failures are not retried and come back
// as a *shared.SetupError.
func (c *Client) Connect(ctx context.Context, cfg SessionConfig) (Session, error) {
	if cfg.Model == "" {
		return nil, &shared.SetupError{Stage: "connect", Err: shared.ErrNoModel}
	}
	cc := ClientConfig(c.apiKey, cfg)
	lc := BuildConnectConfig(cfg)
	logger := c.logger.With(zap.String("model", cfg.Model))
	logger.Info(
		"connecting live session",
		zap.String("api_version", cc.HTTPOptions.APIVersion),
		zap.Bool("affective_dialog", lc.EnableAffectiveDialog != nil),
		zap.Bool("input_transcription", lc.InputAudioTranscription != nil),
		zap.Bool("output_transcription", lc.OutputAudioTranscription != nil),
	)
	if cfg.AffectiveDialog && !IsNativeAudioModel(cfg.Model) {
		logger.Warn("affective dialog ignored: model is not a native audio model")
	}
	conn, err := c.dial(ctx, cc, cfg.Model, lc)
	if err != nil {
		logger.Error("connecting live session", err)
		return nil, &shared.SetupError{Stage: "connect", Err: err}
	}
	logger.Info("live session connected")
	return newSession(logger, conn), nil
}
