package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kamal-hamza/lx-assets/internal/adapters/publisher"
	"github.com/kamal-hamza/lx-assets/internal/core/ports"
	"github.com/kamal-hamza/lx-assets/internal/core/services"
	"github.com/kamal-hamza/lx-assets/pkg/ui"
)

var (
	publishBucket   string
	publishPrefix   string
	publishRegion   string
	publishDir      string
	publishCategory string
	publishSection  string
	publishTag      string
	publishManifest bool
	publishDryRun   bool
)

var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Upload assets and the manifest to S3 or a directory",
	Long: `Mirror registered assets to an S3 bucket (or a local directory) under
<prefix>/<category-dir>/<filename>, plus both manifest files.

Bucket, prefix and region default to the s3 section of the config.
Credentials come from the standard AWS environment and profile chain.

Examples:
  lxa publish --bucket paper-assets --prefix v3
  lxa publish --dir /mnt/share/assets --section forecasting
  lxa publish --dry-run`,
	RunE: runPublish,
}

func init() {
	publishCmd.Flags().StringVar(&publishBucket, "bucket", "", "S3 bucket")
	publishCmd.Flags().StringVar(&publishPrefix, "prefix", "", "Key prefix inside the bucket")
	publishCmd.Flags().StringVar(&publishRegion, "region", "", "AWS region")
	publishCmd.Flags().StringVar(&publishDir, "dir", "", "Publish to a local directory instead of S3")
	publishCmd.Flags().StringVarP(&publishCategory, "category", "c", "", "Only publish this category")
	publishCmd.Flags().StringVarP(&publishSection, "section", "s", "", "Only publish this section")
	publishCmd.Flags().StringVar(&publishTag, "tag", "", "Only publish assets with this tag")
	publishCmd.Flags().BoolVar(&publishManifest, "manifest", true, "Also publish the manifest files")
	publishCmd.Flags().BoolVar(&publishDryRun, "dry-run", false, "List what would be uploaded")
}

func newPublisher(cmd *cobra.Command) (ports.Publisher, error) {
	if publishDir != "" {
		p, err := publisher.NewDirPublisher(publishDir)
		if err != nil {
			return nil, err
		}
		return p, nil
	}

	bucket, prefix, region := appConfig.S3.Bucket, appConfig.S3.Prefix, appConfig.S3.Region
	if cmd.Flags().Changed("bucket") {
		bucket = publishBucket
	}
	if cmd.Flags().Changed("prefix") {
		prefix = publishPrefix
	}
	if cmd.Flags().Changed("region") {
		region = publishRegion
	}
	if bucket == "" {
		return nil, fmt.Errorf("no bucket: pass --bucket, --dir, or set s3.bucket in the config")
	}
	p, err := publisher.NewS3Publisher(getContext(), bucket, prefix, region)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func runPublish(cmd *cobra.Command, args []string) error {
	ctx := getContext()

	filter, err := buildListRequest(cmd, publishCategory, publishSection, publishTag)
	if err != nil {
		return err
	}

	pub, err := newPublisher(cmd)
	if err != nil {
		fmt.Println(ui.FormatError("Failed to set up publisher"))
		return err
	}

	svc := services.NewPublishService(appWorkspace, listService, pub, appLogger)

	if publishDryRun {
		fmt.Println(ui.FormatInfo("Dry run: nothing will be uploaded"))
	} else {
		fmt.Println(ui.FormatRocket("Publishing to " + pub.Location()))
	}

	resp, err := svc.Execute(ctx, services.PublishRequest{
		Filter:          filter,
		IncludeManifest: publishManifest,
		DryRun:          publishDryRun,
	})
	if resp != nil {
		for _, k := range resp.Keys {
			fmt.Println(ui.FormatMuted("  " + k))
		}
	}
	if err != nil {
		fmt.Println(ui.FormatError("Publish failed"))
		return err
	}

	appLogger.Info("published", zap.String("location", resp.Location), zap.Int("objects", len(resp.Keys)), zap.Bool("dry_run", publishDryRun))
	verb := "Published"
	if publishDryRun {
		verb = "Would publish"
	}
	fmt.Println(ui.FormatSuccess(fmt.Sprintf("%s %d objects to %s", verb, len(resp.Keys), resp.Location)))
	return nil
}
