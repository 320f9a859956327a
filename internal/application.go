package application

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/Chaitanyahoon/DeceptionDoodle/internal/client"
	"github.com/Chaitanyahoon/DeceptionDoodle/internal/config"
	"github.com/Chaitanyahoon/DeceptionDoodle/internal/host"
	"github.com/Chaitanyahoon/DeceptionDoodle/internal/transport"
	"github.com/Chaitanyahoon/DeceptionDoodle/internal/transport/relay"
	"github.com/Chaitanyahoon/DeceptionDoodle/internal/words"
)

// RunApp - runs the application in the configured mode.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		log.Info("Received signal, shutting down", "signal", sig)
		cancel()
	}()

	switch conf.Mode {
	case config.ModeRelay:
		return runRelay(ctx, logger, conf)
	case config.ModeHost:
		return runHost(ctx, logger, conf)
	case config.ModeJoin:
		return runJoin(ctx, logger, conf)
	default:
		return fmt.Errorf("unknown mode %q", conf.Mode)
	}
}

func runRelay(ctx context.Context, logger *slog.Logger, conf *config.Config) error {
	logger.With("component", "app").Info("Starting relay broker", "port", conf.RelayPort)

	if err := relay.NewServer(logger).Start(ctx, conf.RelayPort); err != nil {
		return fmt.Errorf("relay broker error: %w", err)
	}

	return nil
}

func runHost(ctx context.Context, logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	adapter := relay.NewAdapter(logger, conf.RelayURL)
	defer adapter.Close()

	controller, err := host.New(logger, adapter, words.DefaultBank(), host.Config{
		Name:              conf.Name,
		Avatar:            conf.Avatar,
		Category:          conf.Game.Category,
		Rounds:            conf.Game.Rounds,
		DrawTime:          conf.Game.DrawTime,
		SelectTime:        conf.Game.SelectTime,
		ResultsTime:       conf.Game.ResultsTime,
		EarlyEndDelay:     conf.Game.EarlyEndDelay,
		AllowDrawerGuess:  conf.Game.AllowDrawerGuess,
		AutoStartPlayers:  conf.Game.AutoStartPlayers,
		HeartbeatInterval: conf.Resilience.HeartbeatInterval(),
		HeartbeatTimeout:  conf.Resilience.HeartbeatTimeout(),
	})
	if err != nil {
		return fmt.Errorf("could not create host session: %w", err)
	}

	adapter.Subscribe(transport.Events{
		PeerConnected:    controller.HandlePeerConnected,
		PeerDisconnected: controller.HandlePeerDisconnected,
		Message:          controller.HandleMessage,
	})

	room, err := adapter.Initialize(ctx, conf.Room)
	if err != nil {
		return fmt.Errorf("could not claim room address: %w", err)
	}

	controller.Start(ctx)
	defer controller.Stop()

	log.Info("Hosting room", "room", room, "name", conf.Name)

	<-ctx.Done()

	return nil
}

func runJoin(ctx context.Context, logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	adapter := relay.NewAdapter(logger, conf.RelayURL)
	defer adapter.Close()

	controller, err := client.New(logger, adapter, client.Config{
		Name:              conf.Name,
		Avatar:            conf.Avatar,
		HostAddr:          conf.Room,
		MaxRetries:        conf.Resilience.MaxRetries,
		InitialDelay:      conf.Resilience.InitialDelay(),
		MaxDelay:          conf.Resilience.MaxDelay(),
		HeartbeatInterval: conf.Resilience.HeartbeatInterval(),
		HeartbeatTimeout:  conf.Resilience.HeartbeatTimeout(),
	})
	if err != nil {
		return fmt.Errorf("could not create client session: %w", err)
	}

	adapter.Subscribe(transport.Events{
		PeerDisconnected: controller.HandlePeerDisconnected,
		Message:          controller.HandleMessage,
	})

	if _, err = adapter.Initialize(ctx, ""); err != nil {
		return fmt.Errorf("could not claim address: %w", err)
	}

	if err = controller.Start(ctx); err != nil {
		return fmt.Errorf("could not join room %s: %w", conf.Room, err)
	}
	defer controller.Stop()

	log.Info("Joined room", "room", conf.Room, "name", conf.Name)

	<-ctx.Done()

	return nil
}
