// Command financectl is the operator CLI: schema migrations, one-off
// commands, CSV exports and summaries straight against the database.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"gestaofinanceira/internal/config"
	"gestaofinanceira/internal/logger"
)

var (
	cfgFile string
	rootCmd = &cobra.Command{
		Use:               "financectl",
		Short:             "Operate the finance tracker database",
		SilenceUsage:      true,
		PersistentPreRunE: initConfig,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./financectl.yaml)")
	rootCmd.PersistentFlags().String("db-driver", "", "database driver (postgres, sqlite)")
	rootCmd.PersistentFlags().String("db-path", "", "sqlite database file")

	_ = viper.BindPFlag("db.driver", rootCmd.PersistentFlags().Lookup("db-driver"))
	_ = viper.BindPFlag("db.path", rootCmd.PersistentFlags().Lookup("db-path"))

	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(recordCmd())
	rootCmd.AddCommand(exportCmd())
	rootCmd.AddCommand(summaryCmd())
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := rootCmd.ExecuteContext(ctx)
	stop()
	logger.Sync()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// initConfig layers the optional config file and FINANCE_* variables over
// the regular environment configuration.
func initConfig(_ *cobra.Command, _ []string) error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName("financectl")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("FINANCE")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	applyOverrides(cfg, viper.GetViper())
	config.Set(cfg)

	logger.Init(cfg.Env)
	return nil
}

// applyOverrides copies the keys set in v onto cfg.
func applyOverrides(cfg *config.Config, v *viper.Viper) {
	overrides := map[string]*string{
		"env":             &cfg.Env,
		"db.driver":       &cfg.DBDriver,
		"db.host":         &cfg.DBHost,
		"db.port":         &cfg.DBPort,
		"db.user":         &cfg.DBUser,
		"db.password":     &cfg.DBPassword,
		"db.name":         &cfg.DBName,
		"db.sslmode":      &cfg.DBSSLMode,
		"db.path":         &cfg.DBPath,
		"currency_symbol": &cfg.CurrencySymbol,
	}
	for key, target := range overrides {
		if s := v.GetString(key); s != "" {
			*target = s
		}
	}
}
