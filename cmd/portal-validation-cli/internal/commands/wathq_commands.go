package commands

import (
	"fmt"

	"github.com/Artef-ca/mobily-vrm-uc/internal/pkg/logger"

	"github.com/spf13/cobra"
)

// WathqCommandHandler fetches commercial registrations from Wathq
type WathqCommandHandler struct {
	logger logger.Logger
}

// NewWathqCommandHandler initializes and returns a WathqCommandHandler with a configured logger
func NewWathqCommandHandler() (*WathqCommandHandler, error) {
	loggerInstance, err := setupLogger()
	if err != nil {
		return nil, fmt.Errorf("failed to setup logger: %w", err)
	}

	return &WathqCommandHandler{
		logger: loggerInstance,
	}, nil
}

// FetchCmd looks up a CR number and saves it as <output-root>/<vendor>/moc_certificate.json
func (commandHandler *WathqCommandHandler) FetchCmd(cmd *cobra.Command, _ []string) error {
	flags := cmd.Flags()
	vendorID, _ := flags.GetString("vendor-id")
	crNumber, _ := flags.GetString("cr-number")
	outputRoot, _ := flags.GetString("output-root")

	commandHandler.logger.Info(fmt.Sprintf("Running Wathq MOC extraction for vendor=%s, CR=%s", vendorID, crNumber))

	svc, err := newRegistryService(outputRoot, commandHandler.logger)
	if err != nil {
		return err
	}

	location, err := svc.FetchAndSave(cmd.Context(), vendorID, crNumber)
	if err != nil {
		commandHandler.logger.Error("No data returned from Wathq. Nothing was saved.")
		return err
	}

	commandHandler.logger.Info("MOC extraction and save completed: ", location)
	return nil
}

// InitWathqCommands registers the wathq command group
func InitWathqCommands(rootCmd *cobra.Command) error {
	handler, err := NewWathqCommandHandler()
	if err != nil {
		return fmt.Errorf("failed to create wathq command handler %w", err)
	}

	wathqCmd := &cobra.Command{
		Use:   "wathq",
		Short: "Wathq commercial registry",
	}

	fetchCmd := &cobra.Command{
		Use:   "fetch",
		Short: "Fetch MOC data for a CR number and save it as a structured document",
		RunE:  handler.FetchCmd,
	}
	fetchCmd.Flags().String("vendor-id", "", "Vendor ID, used as output folder name")
	fetchCmd.Flags().String("cr-number", "", "Commercial Registration (CR) number to query")
	fetchCmd.Flags().String("output-root", "", "Root output folder, e.g. extracted_results_structured")
	for _, name := range []string{"vendor-id", "cr-number", "output-root"} {
		if err := fetchCmd.MarkFlagRequired(name); err != nil {
			return err
		}
	}

	wathqCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(wathqCmd)

	return nil
}
