package commands

import (
	"context"
	"fmt"

	"github.com/Artef-ca/mobily-vrm-uc/internal/app"
	"github.com/Artef-ca/mobily-vrm-uc/internal/domain/registry"
	"github.com/Artef-ca/mobily-vrm-uc/internal/domain/validation"
	"github.com/Artef-ca/mobily-vrm-uc/internal/infrastructure/connector"
	"github.com/Artef-ca/mobily-vrm-uc/internal/pkg/config"
	"github.com/Artef-ca/mobily-vrm-uc/internal/pkg/logger"

	"github.com/spf13/cobra"
)

// VendorCommandHandler runs the full rule set over local vendor folders
type VendorCommandHandler struct {
	logger logger.Logger
}

// NewVendorCommandHandler initializes and returns a VendorCommandHandler with a configured logger
func NewVendorCommandHandler() (*VendorCommandHandler, error) {
	loggerInstance, err := setupLogger()
	if err != nil {
		return nil, fmt.Errorf("failed to setup logger: %w", err)
	}

	return &VendorCommandHandler{
		logger: loggerInstance,
	}, nil
}

// ValidateVendorCmd validates one or all vendors against their documents and
// writes <vendor>_validation_report.json per vendor
func (commandHandler *VendorCommandHandler) ValidateVendorCmd(cmd *cobra.Command, _ []string) error {
	flags := cmd.Flags()
	rulesPath, _ := flags.GetString("config")
	portalRoot, _ := flags.GetString("portal-root")
	ocrRoot, _ := flags.GetString("ocr-root")
	masterRoot, _ := flags.GetString("master-root")
	outputRoot, _ := flags.GetString("output-root")
	vendorID, _ := flags.GetString("vendor-id")
	withRegistry, _ := flags.GetBool("with-registry")
	workers, _ := flags.GetInt("workers")

	engine, err := loadEngine(rulesPath)
	if err != nil {
		return err
	}

	source, err := connector.NewLocalDocumentConnector(&config.DocumentSourceSettings{
		Type:       config.LocalDocumentSource,
		PortalRoot: portalRoot,
		OCRRoot:    ocrRoot,
		MasterRoot: masterRoot,
	}, commandHandler.logger)
	if err != nil {
		return err
	}

	var registrySvc registry.RegistryService
	if withRegistry {
		registrySvc, err = newRegistryService("", commandHandler.logger)
		if err != nil {
			return err
		}
	}

	svc, err := app.NewVendorValidationService(engine, source, registrySvc, commandHandler.logger)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	ids, err := resolveVendorIDs(ctx, source, vendorID)
	if err != nil {
		return err
	}

	opts := validation.VendorValidationOptions{WithRegistry: withRegistry}
	return runBatch(ctx, ids, workers, func(ctx context.Context, id string) error {
		report, err := svc.ValidateVendor(ctx, id, opts)
		if err != nil {
			return err
		}

		outPath, err := writeJSON(outputRoot, id+"_validation_report.json", struct {
			VendorID string `json:"vendor_id"`
			*validation.ValidationReport
			Summary validation.Summary `json:"summary"`
		}{id, report, report.Summarize()})
		if err != nil {
			return err
		}
		commandHandler.logger.Info(fmt.Sprintf("[VENDOR] %s: %s -> %s", id, report.SummaryStatus, outPath))
		return nil
	})
}

// newRegistryService connects to Wathq with the environment settings. With a
// non-empty outputRoot fetched registrations can be saved below it.
func newRegistryService(outputRoot string, log logger.Logger) (registry.RegistryService, error) {
	settings := config.WathqSettingsFromEnv()
	wathq, err := connector.NewWathqConnector(&settings, log)
	if err != nil {
		return nil, err
	}

	var writer *connector.LocalDocumentWriter
	if outputRoot != "" {
		writer, err = connector.NewLocalDocumentWriter(outputRoot, log)
		if err != nil {
			return nil, err
		}
		return app.NewRegistryService(wathq, writer, log)
	}
	return app.NewRegistryService(wathq, nil, log)
}

// InitVendorCommands registers the vendor command group
func InitVendorCommands(rootCmd *cobra.Command) error {
	handler, err := NewVendorCommandHandler()
	if err != nil {
		return fmt.Errorf("failed to create vendor command handler %w", err)
	}

	vendorCmd := &cobra.Command{
		Use:   "vendor",
		Short: "Cross source vendor validation",
	}

	validateCmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate vendors against their OCR documents and vendor master",
		RunE:  handler.ValidateVendorCmd,
	}
	validateCmd.Flags().String("config", config.DefaultRulesPath, "Path to the validation rule file (JSON or YAML)")
	validateCmd.Flags().String("portal-root", defaultPortalRoot, "Folder containing portal vendor JSON files")
	validateCmd.Flags().String("ocr-root", defaultOCRRoot, "Folder containing <vendor>/<DOC>.json OCR results")
	validateCmd.Flags().String("master-root", defaultMasterRoot, "Folder containing <vendor>/vendor_master.json")
	validateCmd.Flags().String("output-root", "outputs/vendor_validation", "Folder where validation reports are written")
	validateCmd.Flags().String("vendor-id", "", "Vendor ID to validate; all vendors when omitted")
	validateCmd.Flags().Bool("with-registry", false, "Add Wathq registry data as the moc_certificate document")
	validateCmd.Flags().Int("workers", defaultWorkers, "Number of vendors validated concurrently")

	vendorCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(vendorCmd)

	return nil
}
