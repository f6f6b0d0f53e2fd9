package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/solenergy/solenergy.com/internal/analytics"
	server "github.com/solenergy/solenergy.com/internal/app"
	"github.com/solenergy/solenergy.com/internal/config"
	"github.com/solenergy/solenergy.com/internal/email"
	"github.com/solenergy/solenergy.com/internal/email/emailqueue"
	"github.com/solenergy/solenergy.com/internal/httpclient"
	"github.com/solenergy/solenergy.com/internal/metrics"
	"github.com/solenergy/solenergy.com/internal/model"
	"github.com/solenergy/solenergy.com/internal/supabase"
	"github.com/spf13/cobra"
)

const supabaseClientTimeout = 10 * time.Second

var configPath string

var rootCmd = &cobra.Command{
	Use:   "solenergy",
	Short: "Run the solenergy.com form service",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.LoadConfig(configPath); err != nil {
			return fmt.Errorf("config: %w", err)
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(
			cmd.Context(), os.Interrupt, syscall.SIGTERM,
		)
		defer stop()
		return run(ctx)
	},
}

func run(ctx context.Context) error {
	metrics.Initialize()

	sender := email.NewSenderFromKey(config.Config.Resend.ApiKey)

	var (
		store  server.RecordStore
		outbox email.Outbox
	)
	switch config.Config.Store.Backend {
	case config.StoreBackendSupabase:
		store = supabase.NewClient(
			httpclient.NewHttpClient(supabaseClientTimeout),
			config.Config.Supabase.URL,
			config.Config.Supabase.ServiceKey,
		)
	default:
		db, err := config.Config.Db.Connect()
		if err != nil {
			return fmt.Errorf("could not connect to db: %w", err)
		}
		pgstore := model.NewStore(db)
		defer pgstore.Close()
		store = pgstore

		if q := config.Config.Email.Queue; q.Enabled {
			outbox = emailqueue.NewOutbox(pgstore)
			go func() {
				if err := emailqueue.Run(
					ctx, sender, pgstore,
					emailqueue.Params{
						Period:     q.Period,
						MaxRetries: q.MaxRetries,
						BatchSize:  q.BatchSize,
					},
				); err != nil {
					log.Fatal("email queue error: ", err)
				}
			}()
		}
	}

	dispatcher := email.NewDispatcher(sender, outbox, email.Params{
		From:    config.Config.Email.From,
		Admin:   config.Config.Email.Admin,
		ReplyTo: config.Config.Email.ReplyTo,
		Site: email.Site{
			Name:     config.Config.Solenergy.SiteName,
			URL:      config.Config.Solenergy.SiteURL,
			Phone:    config.Config.Solenergy.Phone,
			WhatsApp: config.Config.Solenergy.WhatsApp,
		},
	})
	if err := dispatcher.Ready(); err != nil {
		/* not fatal: the form endpoints answer 500 until it is set */
		log.Printf("warning: %v\n", err)
	}

	return server.Serve(ctx, server.NewRouter(
		store,
		dispatcher,
		analytics.NewMixpanelClientWrapper(config.Config.Mixpanel.Token),
		config.Config.Server.RequestTimeout,
	))
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(
		&configPath, "config", "c", "conf.yaml", "path to config file",
	)
	rootCmd.AddCommand(migrateCmd)
}
