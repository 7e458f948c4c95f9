package cmd

import (
	"github.com/longkey1/chatpanel/internal/chatapi"
	"github.com/longkey1/chatpanel/internal/chatpanel"
	"github.com/longkey1/chatpanel/internal/chatpanel/config"
	"github.com/rs/zerolog"
)

// newChatClient creates the HTTP client for the configured chat service
func newChatClient(cfg *config.Config, logger zerolog.Logger) *chatapi.Client {
	client := chatapi.NewClient(cfg.BaseURL,
		chatapi.WithTimeout(cfg.RequestTimeout),
		chatapi.WithLogger(logger),
	)
	client.SetDebug(verbose)
	return client
}

// newWidget wires a widget to the chat service with the configured behavior
func newWidget(cfg *config.Config, client chatpanel.Client, logger zerolog.Logger, observers ...chatpanel.Observer) *chatpanel.Widget {
	opts := cfg.WidgetOptions()
	opts = append(opts, chatpanel.WithLogger(logger))
	for _, o := range observers {
		opts = append(opts, chatpanel.WithObserver(o))
	}
	return chatpanel.NewWidget(client, opts...)
}
