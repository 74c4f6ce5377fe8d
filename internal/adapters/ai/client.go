/* Copyright (c) 2026 ProjectPulse contributors
 * SPDX-License-Identifier: BSD-3-Clause */
package ai

import (
    "context"
    "errors"
    "strings"

    openai "github.com/openai/openai-go/v2"
    "github.com/openai/openai-go/v2/option"
    "github.com/openai/openai-go/v2/shared"
    "github.com/rs/zerolog"

    "github.com/angular-dynamo/projectpulse/internal/config"
)

// Client wraps the chat-completions endpoint used by the summarize and
// mitigation features. The base URL is configurable so any
// OpenAI-compatible gateway works.
type Client struct {
    key   string
    model string
    cli   openai.Client
    log   zerolog.Logger
}

func NewClient(cfg config.Config, log zerolog.Logger) *Client {
    model := cfg.AIModel
    if strings.TrimSpace(model) == "" { model = "gpt-4.1-mini" }
    opts := []option.RequestOption{option.WithAPIKey(cfg.AIKey), option.WithRequestTimeout(cfg.AITimeout)}
    if cfg.AIBaseURL != "" { opts = append(opts, option.WithBaseURL(cfg.AIBaseURL)) }
    return &Client{key: cfg.AIKey, model: model, cli: openai.NewClient(opts...), log: log}
}

func (c *Client) Configured() bool { return strings.TrimSpace(c.key) != "" }

// Complete sends one system+user exchange and returns the raw assistant text.
func (c *Client) Complete(ctx context.Context, system, user string) (string, error) {
    if !c.Configured() { return "", errors.New("ai: missing key") }
    c.log.Info().Str("model", c.model).Msg("ai completion call")
    params := openai.ChatCompletionNewParams{
        Model: shared.ChatModel(c.model),
        Messages: []openai.ChatCompletionMessageParamUnion{
            openai.SystemMessage(system),
            openai.UserMessage(user),
        },
        Temperature: openai.Float(0.7),
    }
    resp, err := c.cli.Chat.Completions.New(ctx, params)
    if err != nil { return "", err }
    if len(resp.Choices) == 0 { return "", errors.New("ai: no choices") }
    return resp.Choices[0].Message.Content, nil
}
