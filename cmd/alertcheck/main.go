// Command alertcheck sends a sample sweep alert to check the SES setup.
package main

import (
	"context"
	"fmt"
	"os"
	"remindbot/internal/config"
	"remindbot/internal/core/domain/sweep"
	"remindbot/internal/implementations/logging"
	sweepobserver "remindbot/internal/implementations/sweep_observer"
	"time"

	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	if !cfg.AlertsEnabled() {
		fmt.Fprintln(os.Stderr, "error: ALERT_EMAIL_SENDER and ALERT_EMAIL_RECIPIENT are not set")
		os.Exit(1)
	}

	awsCfg, err := awsConfig.LoadDefaultConfig(
		context.Background(),
		awsConfig.WithRegion(cfg.AwsRegion),
		awsConfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(
				cfg.AwsAccessKey,
				cfg.AwsSecretKey,
				"",
			),
		),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	log := logging.NewZapLogger(cfg.LogLevel)
	defer log.Sync()

	alert := sweepobserver.NewEmailAlert(log, awsCfg, cfg.AlertEmailSender, cfg.AlertEmailRecipient)
	now := time.Now().UTC()
	err = alert.SweepFinished(context.Background(), sweep.Summary{
		StartedAt:        now,
		FinishedAt:       now,
		Total:            1,
		Processed:        1,
		DeliveryFailures: 1,
		Errored:          1,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Success: sample alert sent to", cfg.AlertEmailRecipient)
}
