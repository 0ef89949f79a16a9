package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/querylint/querylint/pkg/check"
	"github.com/querylint/querylint/pkg/config"
	"github.com/querylint/querylint/pkg/connection"
	"github.com/querylint/querylint/pkg/metadata"
)

var (
	cfgFile string
	dsn     string

	// Mgr and Checker are initialized by the root pre-run and shared by
	// the subcommands.
	Mgr        *connection.Manager
	Checker    *check.Checker
	SchemaName string
)

var RootCmd = &cobra.Command{
	Use:   "querylint",
	Short: "Type checker for raw SQL query results",
	Long: `querylint infers the TypeScript result type of raw MySQL queries
from live database metadata, compares it against the type annotation at
the call site, and plans the edits that reconcile the two.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		connStr := viper.GetString("database.dsn")
		if connStr == "" {
			return fmt.Errorf("database.dsn is required (via flag or config)")
		}

		var err error
		Mgr, err = connection.Open(cmd.Context(), connStr)
		if err != nil {
			return fmt.Errorf("failed to connect to db: %w", err)
		}

		SchemaName, err = Mgr.DatabaseName(cmd.Context())
		if err != nil {
			return err
		}

		provider := metadata.NewProvider(Mgr, SchemaName)
		Checker, err = check.NewChecker(provider, viper.GetString("annotation.markerImport"), viper.GetInt("cache.size"))
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if Mgr != nil {
			_ = Mgr.Close()
		}
	},
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	RootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./querylint.yaml)")
	RootCmd.PersistentFlags().StringVar(&dsn, "dsn", "", "Database Source Name (DSN)")

	_ = viper.BindPFlag("database.dsn", RootCmd.PersistentFlags().Lookup("dsn"))

	viper.SetDefault("database.dsn", "root:root@tcp(127.0.0.1:3306)/test?parseTime=true")
	viper.SetDefault("cache.size", config.DefaultCacheSize)
	viper.SetDefault("annotation.marker", config.DefaultMarker)
	viper.SetDefault("annotation.markerImport", config.DefaultMarkerImport)
	viper.SetDefault("annotation.shape", string(config.DefaultShape))
	viper.SetDefault("server.addr", config.DefaultListenAddr)
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName("querylint")
		viper.SetConfigType("yaml")
	}

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Println("Using config file:", viper.ConfigFileUsed())
	}
}
