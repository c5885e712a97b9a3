package main

import (
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/saeidalz13/battleship-elite/api"
	"github.com/saeidalz13/battleship-elite/db"
	"github.com/saeidalz13/battleship-elite/db/sqlc"
	"github.com/saeidalz13/battleship-elite/models/scoreboard"
)

const defaultScoresPath = "data/scores.json"

func main() {
	if os.Getenv("STAGE") != api.StageProd {
		if err := godotenv.Load(".env"); err != nil {
			log.Println("no .env file loaded:", err)
		}
	}

	stage := os.Getenv("STAGE")
	if stage != api.StageDev && stage != api.StageProd {
		panic("stage must be either dev or prod")
	}

	opts := []api.Option{
		api.WithStage(stage),
		api.WithAllowedOrigins(strings.Split(os.Getenv("ALLOWED_ORIGINS"), ",")...),
	}
	if port := os.Getenv("PORT"); port != "" {
		opts = append(opts, api.WithPort(port))
	}

	// postgres keeps scores and analytics when configured,
	// otherwise scores live in a json file
	if psqlUrl := os.Getenv("DATABASE_URL"); psqlUrl != "" {
		migrationDir := os.Getenv("MIGRATION_DIR")
		if migrationDir == "" {
			migrationDir = db.DefaultMigrationDir
		}

		dbManager := sqlc.NewDbManager(db.MustConnectToDb(psqlUrl, migrationDir))
		opts = append(opts,
			api.WithScoreboard(scoreboard.New(dbManager.Scores)),
			api.WithAnalytics(dbManager.Analytics),
		)
	} else {
		scoresPath := os.Getenv("SCORES_PATH")
		if scoresPath == "" {
			scoresPath = defaultScoresPath
		}
		log.Printf("no database configured; scores kept in %s\n", scoresPath)
		opts = append(opts, api.WithScoreboard(scoreboard.New(scoreboard.NewFileStore(scoresPath))))
	}

	server := api.NewServer(opts...)
	log.Fatalln(server.Run())
}
