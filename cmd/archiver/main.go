package main

import (
	"context"
	"log"
	"os"

	"amenitymap/internal/archive"
	"amenitymap/internal/env"
	"amenitymap/internal/events"
	"amenitymap/internal/service"
	"amenitymap/internal/storage"
	"amenitymap/pkg/graceful"
	"amenitymap/pkg/kafkaclient"
	"amenitymap/pkg/logger"
)

// archiver copies every render event from Kafka into the snapshot bucket.
func main() {
	env.LoadEnv()

	appLog := logger.New(os.Getenv("APP_ENV"))
	ctx, cancel := graceful.Context(context.Background(), appLog)
	defer cancel()

	kafkaBroker := env.MustGetEnv("KAFKA_BROKER")
	kafkaTopic := env.MustGetEnv("KAFKA_TOPIC")
	kafkaGroupID := env.MustGetEnv("KAFKA_GROUP_ID")
	bucketName := env.MustGetEnv("SNAPSHOT_BUCKET_NAME")

	s3Service, err := storage.NewS3Service(appLog)
	if err != nil {
		log.Fatal(err)
	}
	if err := s3Service.CreateBucket(ctx, bucketName, os.Getenv("MINIO_REGION")); err != nil {
		log.Fatal(err)
	}

	appLog.Info("connecting to kafka", "broker", kafkaBroker, "topic", kafkaTopic, "group", kafkaGroupID)
	consumer := kafkaclient.NewKafkaConsumer(kafkaTopic, kafkaGroupID, kafkaBroker, appLog)
	consumer.StartConsuming(ctx)

	iterator := service.NewIterator[events.Rendered](consumer, nil, appLog)
	stats, err := archive.Run(ctx, iterator, s3Service, bucketName, appLog)
	if err != nil {
		appLog.Error("archiver stopped on storage failure", "error", err)
		cancel()
	}

	consumer.Stop()
	appLog.Info("archiver stopped", "stored", stats.Stored, "skipped", stats.Skipped)
	if err != nil {
		os.Exit(1)
	}
}
