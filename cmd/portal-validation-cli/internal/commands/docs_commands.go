package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Artef-ca/mobily-vrm-uc/internal/infrastructure/connector"
	"github.com/Artef-ca/mobily-vrm-uc/internal/pkg/config"
	"github.com/Artef-ca/mobily-vrm-uc/internal/pkg/docutil"
	"github.com/Artef-ca/mobily-vrm-uc/internal/pkg/logger"

	"github.com/spf13/cobra"
)

// DocsCommandHandler converts and lists document files
type DocsCommandHandler struct {
	logger logger.Logger
}

// NewDocsCommandHandler initializes and returns a DocsCommandHandler with a configured logger
func NewDocsCommandHandler() (*DocsCommandHandler, error) {
	loggerInstance, err := setupLogger()
	if err != nil {
		return nil, fmt.Errorf("failed to setup logger: %w", err)
	}

	return &DocsCommandHandler{
		logger: loggerInstance,
	}, nil
}

// ConvertCmd turns raw OCR responses into structured documents under
// <output-root>/<vendor>/<doc_type>.json. The input is a file or a folder of
// *_raw.json files.
func (commandHandler *DocsCommandHandler) ConvertCmd(cmd *cobra.Command, _ []string) error {
	flags := cmd.Flags()
	input, _ := flags.GetString("input")
	docType, _ := flags.GetString("doc-type")
	outputRoot, _ := flags.GetString("output-root")
	vendorID, _ := flags.GetString("vendor-id")

	files := []string{input}
	if info, err := os.Stat(input); err != nil {
		return fmt.Errorf("failed to stat %s: %w", input, err)
	} else if info.IsDir() {
		if files, err = docutil.ListJSONs(input, true); err != nil {
			return err
		}
	}

	writer, err := connector.NewLocalDocumentWriter(outputRoot, commandHandler.logger)
	if err != nil {
		return err
	}

	for _, file := range files {
		outPath, err := convertRawFile(cmd.Context(), writer, file, vendorID, docType)
		if err != nil {
			return err
		}
		commandHandler.logger.Info(fmt.Sprintf("Converted %s -> %s", file, outPath))
	}
	return nil
}

func convertRawFile(ctx context.Context, writer *connector.LocalDocumentWriter, file, vendorID, docType string) (string, error) {
	data, err := os.ReadFile(filepath.Clean(file))
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", file, err)
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return "", fmt.Errorf("failed to decode %s: %w", file, err)
	}

	doc := docutil.ConvertSimpleDoc(raw, docutil.DocTypeFromFileName(file, docType))
	return writer.Save(ctx, vendorID, doc)
}

// ListCmd prints the JSON (or PDF) files under a folder, one per line
func (commandHandler *DocsCommandHandler) ListCmd(cmd *cobra.Command, _ []string) error {
	flags := cmd.Flags()
	root, _ := flags.GetString("root")
	rawOnly, _ := flags.GetBool("raw-only")
	pdf, _ := flags.GetBool("pdf")

	var files []string
	var err error
	if pdf {
		files, err = docutil.ListPDFs(root)
	} else {
		files, err = docutil.ListJSONs(root, rawOnly)
	}
	if err != nil {
		return fmt.Errorf("failed to list %s: %w", root, err)
	}

	out := cmd.OutOrStdout()
	for _, f := range files {
		fmt.Fprintln(out, f)
	}
	return nil
}

// DownloadCmd copies one object of a Cloud Storage bucket to a local file
func (commandHandler *DocsCommandHandler) DownloadCmd(cmd *cobra.Command, _ []string) error {
	flags := cmd.Flags()
	bucket, _ := flags.GetString("bucket")
	object, _ := flags.GetString("object")
	dest, _ := flags.GetString("dest")
	credentials, _ := flags.GetString("credentials")

	ctx := cmd.Context()
	gcs, err := connector.NewGCSDocumentConnector(ctx, &config.GCSSettings{
		Bucket:          bucket,
		CredentialsPath: credentials,
	}, commandHandler.logger)
	if err != nil {
		return err
	}
	defer gcs.Close()

	if err := gcs.DownloadToFile(ctx, bucket, object, dest); err != nil {
		return err
	}
	commandHandler.logger.Info(fmt.Sprintf("Downloaded gs://%s/%s -> %s", bucket, object, dest))
	return nil
}

// InitDocsCommands registers the docs command group
func InitDocsCommands(rootCmd *cobra.Command) error {
	handler, err := NewDocsCommandHandler()
	if err != nil {
		return fmt.Errorf("failed to create docs command handler %w", err)
	}

	docsCmd := &cobra.Command{
		Use:   "docs",
		Short: "Document file utilities",
	}

	convertCmd := &cobra.Command{
		Use:   "convert",
		Short: "Convert raw OCR responses into structured documents",
		RunE:  handler.ConvertCmd,
	}
	convertCmd.Flags().String("input", "", "Raw OCR JSON file or folder of *_raw.json files")
	convertCmd.Flags().String("doc-type", "", "Doc type override; derived from the file name when omitted")
	convertCmd.Flags().String("output-root", "", "Root output folder")
	convertCmd.Flags().String("vendor-id", "", "Vendor ID, used as output folder name")
	for _, name := range []string{"input", "output-root", "vendor-id"} {
		if err := convertCmd.MarkFlagRequired(name); err != nil {
			return err
		}
	}
	docsCmd.AddCommand(convertCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List document files below a folder",
		RunE:  handler.ListCmd,
	}
	listCmd.Flags().String("root", ".", "Folder to search recursively")
	listCmd.Flags().Bool("raw-only", false, "Only list *_raw.json files")
	listCmd.Flags().Bool("pdf", false, "List PDF files instead of JSON files")
	docsCmd.AddCommand(listCmd)

	downloadCmd := &cobra.Command{
		Use:   "download",
		Short: "Download an object from Cloud Storage",
		RunE:  handler.DownloadCmd,
	}
	downloadCmd.Flags().String("bucket", "", "Bucket name")
	downloadCmd.Flags().String("object", "", "Object name")
	downloadCmd.Flags().String("dest", "", "Local destination path")
	downloadCmd.Flags().String("credentials", "", "Service account key file; Application Default Credentials when omitted")
	for _, name := range []string{"bucket", "object", "dest"} {
		if err := downloadCmd.MarkFlagRequired(name); err != nil {
			return err
		}
	}
	docsCmd.AddCommand(downloadCmd)

	rootCmd.AddCommand(docsCmd)
	return nil
}
