package cli

import (
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/ember-app/ember-go/internal/api"
	"github.com/ember-app/ember-go/internal/balance"
	"github.com/ember-app/ember-go/internal/config"
	"github.com/ember-app/ember-go/internal/creds"
	"github.com/ember-app/ember-go/internal/realtime"
)

// app is the wired SDK shared by all subcommands.
type app struct {
	cfg      config.Config
	creds    *creds.Manager
	api      *api.Client
	realtime *realtime.Client
	balances *balance.Store
}

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:           "ember",
		Short:         "Ember client: talk to the Ember backend from the terminal",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file")

	app, err := wireApp(configPath)
	if err != nil {
		rootCmd.RunE = func(_ *cobra.Command, _ []string) error {
			return err
		}
		return rootCmd
	}

	rootCmd.AddCommand(
		newLoginCmd(app),
		newLogoutCmd(app),
		newStatusCmd(app),
		newListenCmd(app),
		newBuyCmd(app),
	)

	return rootCmd
}

func wireApp(configPath string) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	if level, err := zerolog.ParseLevel(cfg.Log.Level); err == nil {
		zerolog.SetGlobalLevel(level)
	}

	clock := clockwork.NewRealClock()
	manager := creds.NewManager(creds.NewFileStore(cfg.Credentials.Dir))

	apiClient := api.NewClient(cfg.API.BaseURL, manager)
	apiClient.SetTimeout(cfg.API.Timeout.Std())

	rtConfig := realtime.DefaultConfig(cfg.Realtime.URL)
	rtConfig.ReconnectWait = cfg.Realtime.ReconnectWait.Std()
	rtConfig.MaxReconnectWait = cfg.Realtime.MaxReconnectWait.Std()
	rtConfig.OutboxCapacity = cfg.Realtime.OutboxCapacity

	return &app{
		cfg:      cfg,
		creds:    manager,
		api:      apiClient,
		realtime: realtime.NewClient(rtConfig, manager, clock),
		balances: balance.New(clock),
	}, nil
}
