package commands

import (
	"context"
	"fmt"

	"github.com/Artef-ca/mobily-vrm-uc/internal/infrastructure/connector"
	"github.com/Artef-ca/mobily-vrm-uc/internal/pkg/config"
	"github.com/Artef-ca/mobily-vrm-uc/internal/pkg/logger"

	"github.com/spf13/cobra"
)

// PortalCommandHandler runs the rule set over portal submissions alone
type PortalCommandHandler struct {
	logger logger.Logger
}

// NewPortalCommandHandler initializes and returns a PortalCommandHandler with a configured logger
func NewPortalCommandHandler() (*PortalCommandHandler, error) {
	loggerInstance, err := setupLogger()
	if err != nil {
		return nil, fmt.Errorf("failed to setup logger: %w", err)
	}

	return &PortalCommandHandler{
		logger: loggerInstance,
	}, nil
}

// ValidatePortalCmd validates one or all portal files without any other document
// and writes <vendor>_portal_report.json per vendor
func (commandHandler *PortalCommandHandler) ValidatePortalCmd(cmd *cobra.Command, _ []string) error {
	flags := cmd.Flags()
	rulesPath, _ := flags.GetString("config")
	portalRoot, _ := flags.GetString("portal-root")
	vendorID, _ := flags.GetString("vendor-id")
	outputRoot, _ := flags.GetString("output-root")
	workers, _ := flags.GetInt("workers")

	engine, err := loadEngine(rulesPath)
	if err != nil {
		return err
	}

	source, err := connector.NewLocalDocumentConnector(&config.DocumentSourceSettings{
		Type:       config.LocalDocumentSource,
		PortalRoot: portalRoot,
	}, commandHandler.logger)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	ids, err := resolveVendorIDs(ctx, source, vendorID)
	if err != nil {
		return err
	}

	return runBatch(ctx, ids, workers, func(ctx context.Context, id string) error {
		portal, err := source.LoadPortal(ctx, id)
		if err != nil {
			return err
		}

		report := engine.Validate(portal, map[string]map[string]any{})

		outPath, err := writeJSON(outputRoot, id+"_portal_report.json", report)
		if err != nil {
			return err
		}
		commandHandler.logger.Info(fmt.Sprintf("[PORTAL] %s: %s -> %s", id, report.SummaryStatus, outPath))
		return nil
	})
}

// InitPortalCommands registers the portal command group
func InitPortalCommands(rootCmd *cobra.Command) error {
	handler, err := NewPortalCommandHandler()
	if err != nil {
		return fmt.Errorf("failed to create portal command handler %w", err)
	}

	portalCmd := &cobra.Command{
		Use:   "portal",
		Short: "Portal-only validation",
	}

	validateCmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate portal submissions",
		RunE:  handler.ValidatePortalCmd,
	}
	validateCmd.Flags().String("config", config.DefaultRulesPath, "Path to the validation rule file (JSON or YAML)")
	validateCmd.Flags().String("portal-root", defaultPortalRoot, "Folder containing portal vendor JSON files")
	validateCmd.Flags().String("vendor-id", "", "Vendor ID to validate; all vendors when omitted")
	validateCmd.Flags().String("output-root", "outputs/portal_validation", "Folder where validation reports are written")
	validateCmd.Flags().Int("workers", defaultWorkers, "Number of vendors validated concurrently")

	portalCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(portalCmd)

	return nil
}
