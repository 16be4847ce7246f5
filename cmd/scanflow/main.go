// Package main is the CLI entry point for scanflow.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/trymirror/scanflow/internal/catalog"
	"github.com/trymirror/scanflow/internal/config"
	"github.com/trymirror/scanflow/internal/domain"
	"github.com/trymirror/scanflow/internal/infra"
	"github.com/trymirror/scanflow/internal/scan"
	"github.com/trymirror/scanflow/internal/tui"
)

var (
	// Version info (set via ldflags)
	Version   = "0.1.0"
	Commit    = "dev"
	BuildTime = "unknown"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "scanflow",
	Short: "QR/barcode acquisition for the trymirror storefront",
	Long: `scanflow drives the storefront's code-scanning workflow: it requests
camera access, watches the scanner spool for decoded payloads, classifies
them (link vs plain text), and offers a gallery-image fallback.`,
	Version: Version,
}

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Start an interactive scan session",
	Long: `Requests camera access, acquires the scanner device, and renders the
live acquisition status. Each payload dropped into the spool directory is
classified and shown as it arrives; press 'g' to fall back to a gallery
image, 'q' to close the session.`,
	RunE: runScan,
}

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "List the product catalog",
	RunE:  runCatalog,
}

var shareCmd = &cobra.Command{
	Use:   "share <product-id>",
	Short: "Render a product's share link as a QR code",
	Long: `Renders the product share URL as a QR code, printed to the terminal or
written to a PNG with --out. Scanning the code yields the https link back.`,
	Args: cobra.ExactArgs(1),
	RunE: runShare,
}

var favoritesCmd = &cobra.Command{
	Use:   "favorites",
	Short: "Manage persisted favorites",
}

var favoritesAddCmd = &cobra.Command{
	Use:   "add <product-id>",
	Short: "Add a catalog product to favorites",
	Args:  cobra.ExactArgs(1),
	RunE:  runFavoritesAdd,
}

var favoritesRemoveCmd = &cobra.Command{
	Use:   "remove <product-id>",
	Short: "Remove a product from favorites",
	Args:  cobra.ExactArgs(1),
	RunE:  runFavoritesRemove,
}

var favoritesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List favorites",
	RunE:  runFavoritesList,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run:   runVersion,
}

var (
	configPath string
	spoolDir   string
	galleryDir string
	autoGrant  bool
	shareOut   string
	jsonOutput bool
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath(), "Config file path")

	scanCmd.Flags().StringVar(&spoolDir, "spool", "", "Scanner spool directory (overrides config)")
	scanCmd.Flags().StringVar(&galleryDir, "gallery", "", "Gallery directory (overrides config)")
	scanCmd.Flags().BoolVar(&autoGrant, "auto-grant", false, "Skip the permission prompt and grant camera access")

	shareCmd.Flags().StringVar(&shareOut, "out", "", "Write the QR code PNG to this path instead of the terminal")
	versionCmd.Flags().BoolVar(&jsonOutput, "json", false, "Output version info as JSON")

	favoritesCmd.AddCommand(favoritesAddCmd)
	favoritesCmd.AddCommand(favoritesRemoveCmd)
	favoritesCmd.AddCommand(favoritesListCmd)

	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(catalogCmd)
	rootCmd.AddCommand(shareCmd)
	rootCmd.AddCommand(favoritesCmd)
	rootCmd.AddCommand(versionCmd)
}

func runScan(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if spoolDir != "" {
		cfg.SpoolDir = spoolDir
	}
	if galleryDir != "" {
		cfg.GalleryDir = galleryDir
	}

	logger := createLogger(cfg.LogPath)
	defer func() { _ = logger.Sync() }()

	pm := infra.NewProcessManager()
	device := infra.NewSpoolDevice(cfg.SpoolDir, pm, logger)
	picker := infra.NewDirGalleryPicker(cfg.GalleryDir)

	var requester domain.PermissionRequester
	if autoGrant {
		requester = &infra.StaticPermissionRequester{State: domain.PermissionGranted}
	} else {
		requester = infra.NewTerminalPermissionRequester(os.Stdin, os.Stdout)
	}
	gate := scan.NewPermissionGate(requester, logger)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Info("received shutdown signal")
		cancel()
	}()

	// Resolve the permission prompt before the TUI takes over the terminal.
	// The gate records the answer; the controller reuses it without prompting.
	if _, err := gate.Request(ctx); err != nil {
		return err
	}

	session := scan.NewSession(device, logger)
	controller := scan.NewController(gate, session, picker, logger)

	done := make(chan error, 1)
	go func() { done <- controller.Run(ctx) }()

	program := tea.NewProgram(tui.NewModel(controller, session.Beam()))
	_, uiErr := program.Run()

	cancel()
	controller.Close()

	if err := <-done; err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return uiErr
}

func runCatalog(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	reg := catalog.NewRegistry()

	fmt.Println("\n=== Catalog ===")
	for _, p := range reg.GetAll() {
		fmt.Printf("\n[%s] %s\n", p.ID, p.Name)
		fmt.Printf("  Price: $%.2f\n", p.Price)
		fmt.Printf("  Share: %s\n", p.ShareURL(cfg.ShareBaseURL))
	}
	fmt.Println("\n===============")
	return nil
}

func runShare(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	reg := catalog.NewRegistry()
	p, err := reg.GetByID(args[0])
	if err != nil {
		return err
	}

	url := p.ShareURL(cfg.ShareBaseURL)

	if shareOut != "" {
		if err := infra.WriteShareCode(url, shareOut); err != nil {
			return err
		}
		fmt.Printf("Share code for %s written to %s\n", p.Name, shareOut)
		return nil
	}

	code, err := infra.ShareCodeString(url)
	if err != nil {
		return err
	}
	fmt.Printf("%s\n%s\n", p.Name, code)
	return nil
}

func openFavorites(cfg config.Config) (domain.FavoritesStore, error) {
	keyProvider := infra.NewFileKeyProvider(cfg.DataDir)
	key, err := keyProvider.EnsureKey()
	if err != nil {
		return nil, err
	}
	return infra.NewFavoritesDB(cfg.DataDir, key)
}

func runFavoritesAdd(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	reg := catalog.NewRegistry()
	p, err := reg.GetByID(args[0])
	if err != nil {
		return err
	}

	store, err := openFavorites(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Add(*p); err != nil {
		return err
	}
	fmt.Printf("Added %s to favorites\n", p.Name)
	return nil
}

func runFavoritesRemove(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	store, err := openFavorites(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Remove(args[0]); err != nil {
		return err
	}
	fmt.Printf("Removed %s from favorites\n", args[0])
	return nil
}

func runFavoritesList(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	store, err := openFavorites(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	favorites, err := store.List()
	if err != nil {
		return err
	}

	if len(favorites) == 0 {
		fmt.Println("No favorites yet.")
		return nil
	}

	fmt.Println("\n=== Favorites ===")
	for _, f := range favorites {
		fmt.Printf("  [%s] %s  $%.2f  (added %s)\n",
			f.ProductID, f.Name, f.Price, f.AddedAt.Format("2006-01-02"))
	}
	fmt.Println("=================")
	return nil
}

func createLogger(path string) *zap.Logger {
	_ = os.MkdirAll(filepath.Dir(path), 0700)

	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{path}
	cfg.ErrorOutputPaths = []string{path}
	cfg.EncoderConfig.TimeKey = "time"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := cfg.Build()
	if err != nil {
		// Fallback to stderr if file logging fails
		logger, _ = zap.NewProduction()
	}
	return logger
}

func runVersion(cmd *cobra.Command, args []string) {
	if jsonOutput {
		fmt.Printf(`{"version":"%s","commit":"%s","build_time":"%s"}`+"\n",
			Version, Commit, BuildTime)
	} else {
		fmt.Printf("scanflow %s (commit: %s, built: %s)\n",
			Version, Commit, BuildTime)
	}
}
