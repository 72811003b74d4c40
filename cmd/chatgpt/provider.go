package main

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/dv-team/chatgpt-go/pkg/config"
	"github.com/dv-team/chatgpt-go/pkg/provider"
	"github.com/dv-team/chatgpt-go/pkg/provider/echo"
	"github.com/dv-team/chatgpt-go/pkg/provider/gemini"
	"github.com/dv-team/chatgpt-go/pkg/provider/openai"
	"github.com/dv-team/chatgpt-go/pkg/provider/openrouter"
)

var errNoOpenAI = errors.New("this command needs OPENAI_API_KEY or openai.api_key in the config")

// initProvider selects OpenRouter, Gemini or OpenAI depending on which
// credentials are configured, falling back to a local echo provider.
func initProvider(ctx context.Context, cfg *config.Config, logger logrus.FieldLogger) provider.ChatModel {
	if cfg.OpenRouter.APIKey != "" {
		llm, err := openrouter.NewChatModel(openrouter.Config{
			APIKey:      cfg.OpenRouter.APIKey,
			BaseURL:     cfg.OpenRouter.BaseURL,
			Model:       cfg.OpenRouter.Model,
			Referer:     cfg.OpenRouter.Referer,
			AppName:     cfg.OpenRouter.AppName,
			Temperature: cfg.OpenRouter.Temperature,
			Interceptor: provider.LoggingInterceptor(logger),
			Logger:      logger,
		})
		if err == nil {
			logger.Debug("using openrouter provider")
			return llm
		}
		logger.WithError(err).Warn("openrouter init failed, trying the next provider")
	}

	if cfg.Gemini.APIKey != "" {
		llm, err := gemini.NewChatModel(ctx, gemini.Config{
			APIKey: cfg.Gemini.APIKey,
			Model:  cfg.Gemini.Model,
			Logger: logger,
		})
		if err == nil {
			logger.Debug("using gemini provider")
			return llm
		}
		logger.WithError(err).Warn("gemini init failed, trying the next provider")
	}

	if llm, err := newOpenAI(cfg, logger); err == nil {
		logger.Debug("using openai provider")
		return llm
	} else if cfg.OpenAI.APIKey != "" {
		logger.WithError(err).Warn("openai init failed, falling back to echo provider")
	}

	logger.Info("no API key configured, using echo provider")
	return echo.New("")
}

func newOpenAI(cfg *config.Config, logger logrus.FieldLogger) (*openai.ChatModel, error) {
	if cfg.OpenAI.APIKey == "" {
		return nil, errNoOpenAI
	}
	return openai.NewChatModel(openai.Config{
		APIKey:      cfg.OpenAI.APIKey,
		BaseURL:     cfg.OpenAI.BaseURL,
		Model:       cfg.Model(),
		Interceptor: provider.LoggingInterceptor(logger),
		Logger:      logger,
	})
}
