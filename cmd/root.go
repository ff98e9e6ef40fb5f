package cmd

import (
	"os"
	"strings"
	"time"

	globalConfig "github.com/AzielCF/az-planner/config"
	"github.com/AzielCF/az-planner/pkg/utils"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Short: "AI social media content planner API",
	Long: `az-planner turns a niche description into a multi-day social media
content plan (posts, reels scripts and images), lets you approve or revise
each item and delivers the approved ones to a Telegram channel.`,
}

func init() {
	// Load environment variables first
	utils.LoadConfig(".")

	time.Local = time.UTC

	rootCmd.CompletionOptions.DisableDefaultCmd = true

	initFlags()

	cobra.OnInitialize(initEnvConfig, initLogging)
}

func initFlags() {
	rootCmd.PersistentFlags().StringVarP(
		&globalConfig.AppPort, "port", "p",
		globalConfig.AppPort, "change port number")

	rootCmd.PersistentFlags().BoolVarP(
		&globalConfig.AppDebug, "debug", "d",
		globalConfig.AppDebug, "enable debug logging")

	rootCmd.PersistentFlags().StringVar(
		&globalConfig.AIProvider, "ai-provider",
		globalConfig.AIProvider, "AI vendor: gemini or openai")

	rootCmd.PersistentFlags().StringVar(
		&globalConfig.AIAPIKey, "ai-api-key",
		globalConfig.AIAPIKey, "API key for the AI vendor")

	rootCmd.PersistentFlags().StringVar(
		&globalConfig.PathStorages, "path-storages",
		globalConfig.PathStorages, "directory for durable storage files")
}

// initEnvConfig loads configuration from environment variables
func initEnvConfig() {
	if envPort := viper.GetString("app_port"); envPort != "" {
		globalConfig.AppPort = envPort
	}
	if viper.GetBool("app_debug") {
		globalConfig.AppDebug = true
	}

	envBasicAuth := viper.GetString("app_basic_auth")
	if envBasicAuth == "" {
		envBasicAuth = os.Getenv("APP_BASIC_AUTH")
	}
	if envBasicAuth != "" {
		globalConfig.AppBasicAuthCredential = strings.Split(envBasicAuth, ",")
	}

	if envProvider := viper.GetString("ai_provider"); envProvider != "" {
		globalConfig.AIProvider = strings.ToLower(envProvider)
	}
	if envKey := viper.GetString("ai_api_key"); envKey != "" {
		globalConfig.AIAPIKey = envKey
	}
	if envStorages := viper.GetString("path_storages"); envStorages != "" {
		globalConfig.PathStorages = envStorages
	}
}

func initLogging() {
	if globalConfig.AppDebug {
		logrus.SetLevel(logrus.DebugLevel)
	} else {
		logrus.SetLevel(logrus.InfoLevel)
	}
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logrus.Fatalln(err)
	}
}
