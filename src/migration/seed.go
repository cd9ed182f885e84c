package migration

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"

	"github.com/jackc/pgx/v5/tracelog"
	"github.com/mediavault/mediavault/src/auth"
	"github.com/mediavault/mediavault/src/config"
	"github.com/mediavault/mediavault/src/db"
	"github.com/mediavault/mediavault/src/media"
	"github.com/mediavault/mediavault/src/models"
	"github.com/mediavault/mediavault/src/storage"
	"github.com/mediavault/mediavault/src/utils"
	"github.com/mediavault/mediavault/src/website"
	"github.com/spf13/cobra"
)

func init() {
	seedCommand := &cobra.Command{
		Use:   "seed",
		Short: "Seed the database with sample data for local dev",
		Run: func(cmd *cobra.Command, args []string) {
			SampleSeed()
		},
	}
	website.WebsiteCommand.AddCommand(seedCommand)
}

// Seeds the database with sample users and media for local dev. Requires the
// object store (or the devstorage server) to be reachable, since sample
// uploads go through the real ingestion pipeline.
func SampleSeed() {
	Migrate(LatestVersion())

	ctx := context.Background()
	conn := db.NewConnWithConfig(config.PostgresConfig{
		LogLevel: tracelog.LogLevelWarn,
	})
	defer conn.Close(ctx)

	store := storage.NewS3Store(config.Config.Storage)

	fmt.Println("Creating users (all with password \"password\")...")
	alice := seedUser(ctx, conn, models.User{Username: "alice", Name: "Alice", Bio: "I take pictures of my cat."})
	bob := seedUser(ctx, conn, models.User{Username: "bob", Name: "Bob"})

	fmt.Println("Uploading sample images...")
	seedImage(ctx, conn, store, alice.ID, "red.png", color.NRGBA{200, 30, 30, 255}, []string{"test-data", "red"})
	seedImage(ctx, conn, store, alice.ID, "green.png", color.NRGBA{30, 200, 30, 255}, []string{"test-data", "green"})
	seedImage(ctx, conn, store, bob.ID, "blue.png", color.NRGBA{30, 30, 200, 255}, []string{"test-data", "blue"})

	fmt.Println("Done!")
}

func seedUser(ctx context.Context, conn db.ConnOrTx, input models.User) *models.User {
	password := auth.HashPassword("password")

	user, err := db.QueryOne[models.User](ctx, conn,
		`
		INSERT INTO users (email, password, name, username, bio, is_active)
		VALUES ($1, $2, $3, $4, $5, TRUE)
		RETURNING $columns
		`,
		utils.OrDefault(input.Email, fmt.Sprintf("%s@example.com", input.Username)),
		password.String(),
		input.Name,
		input.Username,
		input.Bio,
	)
	if err != nil {
		panic(err)
	}

	return user
}

func seedImage(ctx context.Context, conn db.ConnOrTx, store storage.Store, ownerID int, filename string, fill color.NRGBA, tags []string) {
	img := image.NewNRGBA(image.Rect(0, 0, 640, 480))
	for y := 0; y < 480; y++ {
		for x := 0; x < 640; x++ {
			img.SetNRGBA(x, y, fill)
		}
	}
	var buf bytes.Buffer
	err := png.Encode(&buf, img)
	if err != nil {
		panic(err)
	}

	_, err = media.IngestImage(ctx, conn, store, media.IngestInput{
		OwnerID:     ownerID,
		Filename:    filename,
		Content:     buf.Bytes(),
		ContentType: "image/png",
		IsPublic:    true,
		Tags:        tags,
	})
	if err != nil {
		panic(err)
	}
}
