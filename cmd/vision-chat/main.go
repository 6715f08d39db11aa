package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hferrera/vision-chat/config"
	"github.com/hferrera/vision-chat/exchange"
	"github.com/hferrera/vision-chat/forward"
	"github.com/hferrera/vision-chat/inference"
	"github.com/hferrera/vision-chat/internal/logger"
	"github.com/hferrera/vision-chat/tui"
)

var (
	// Flags
	serverURL  string
	listenAddr string
	modelID    string
	region     string
	debug      bool
	cfgServer  string
	cfgModel   string

	// Root command
	rootCmd = &cobra.Command{
		Use:   "vision-chat",
		Short: "Multimodal chat client",
		Long:  "vision-chat - a text+image chat client backed by a managed model inference API",
		RunE:  runChat,
	}

	// Serve command runs the forwarding service
	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Run the forwarding service",
		RunE:  runServe,
	}

	// Config commands manage the saved defaults
	configCmd = &cobra.Command{
		Use:   "config",
		Short: "Manage saved defaults",
	}

	configSetCmd = &cobra.Command{
		Use:   "set",
		Short: "Save default server URL and model",
		RunE:  runConfigSet,
	}

	configShowCmd = &cobra.Command{
		Use:   "show",
		Short: "Show saved defaults",
		RunE:  runConfigShow,
	}
)

func init() {
	rootCmd.Flags().StringVar(&serverURL, "server", "", "Forwarding service URL")

	serveCmd.Flags().StringVar(&listenAddr, "listen", "", "Address to listen on")
	serveCmd.Flags().StringVar(&modelID, "model", "", "Model identifier")
	serveCmd.Flags().StringVar(&region, "region", "", "Inference region")
	serveCmd.Flags().BoolVar(&debug, "debug", false, "Enable debug logging")

	configSetCmd.Flags().StringVar(&cfgServer, "server", "", "Forwarding service URL to save")
	configSetCmd.Flags().StringVar(&cfgModel, "model", "", "Model identifier to save")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configShowCmd)
}

func main() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			fmt.Printf("Warning: Error loading .env file: %v\n", err)
		}
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// runChat starts the interactive chat surface.
func runChat(cmd *cobra.Command, args []string) error {
	settings := config.FromEnv()
	manager, err := config.NewManager()
	if err != nil {
		return err
	}

	// Flag beats environment beats saved config.
	url := config.ResolveServerURL(serverURL, settings, manager)

	client := exchange.NewHTTPClient(url)
	p := tea.NewProgram(tui.New(client), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("failed to run chat: %w", err)
	}
	return nil
}

// runServe starts the forwarding service with an explicitly
// constructed inference client.
func runServe(cmd *cobra.Command, args []string) error {
	settings := config.FromEnv()
	manager, err := config.NewManager()
	if err != nil {
		return err
	}

	if listenAddr != "" {
		settings.ListenAddr = listenAddr
	}
	if region != "" {
		settings.Region = region
	}
	if debug {
		settings.Debug = true
	}
	settings.ModelID = config.ResolveModelID(modelID, settings, manager)

	log := logger.New(settings.Debug)
	defer log.Sync()

	opts := []inference.ClientOption{
		inference.WithRegion(settings.Region),
		inference.WithModel(settings.ModelID),
	}
	if settings.Endpoint != "" {
		opts = append(opts, inference.WithBaseURL(settings.Endpoint))
	}
	if settings.APIKey != "" {
		opts = append(opts, inference.WithAPIKey(settings.APIKey))
	}

	client, err := inference.NewClient(opts...)
	if err != nil {
		return fmt.Errorf("failed to create inference client: %w", err)
	}

	log.Info("vision-chat forwarding service starting",
		zap.String("listen", settings.ListenAddr),
		zap.String("region", settings.Region),
		zap.String("model", settings.ModelID),
	)

	server := forward.New(forward.Config{ListenAddr: settings.ListenAddr}, client, log)
	if err := server.Run(); err != nil {
		return fmt.Errorf("forwarding server failed: %w", err)
	}
	return nil
}

// runConfigSet saves defaults; unset flags keep the current values.
func runConfigSet(cmd *cobra.Command, args []string) error {
	manager, err := config.NewManager()
	if err != nil {
		return err
	}

	server := cfgServer
	if server == "" {
		server = manager.GetServerURL()
	}
	model := cfgModel
	if model == "" {
		model = manager.GetModelID()
	}

	if err := manager.SetDefaults(server, model); err != nil {
		return err
	}
	fmt.Printf("Saved: server=%s model=%s\n", server, model)
	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	manager, err := config.NewManager()
	if err != nil {
		return err
	}

	fmt.Printf("server: %s\n", manager.GetServerURL())
	fmt.Printf("model:  %s\n", manager.GetModelID())
	return nil
}
