package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"CoinLens/internal/model"
)

var importable = map[string]bool{
	model.CollectionPrices:  true,
	model.CollectionAHR999:  true,
	model.CollectionHalving: true,
	model.CollectionStats:   true,
}

func importCmd(a *app) *cobra.Command {
	var collection, id, file string
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Load a JSON document into the local store",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if a.writer == nil {
				return fmt.Errorf("store driver %q is read-only", a.cfg.Store.Driver)
			}
			if !importable[collection] {
				return fmt.Errorf("unknown collection %q", collection)
			}
			if id == "" {
				return errors.New("--id is required")
			}
			body, err := os.ReadFile(file)
			if err != nil {
				return fmt.Errorf("read %s: %w", file, err)
			}
			if !json.Valid(body) {
				return fmt.Errorf("%s is not valid JSON", file)
			}
			if err := a.writer.Put(cmd.Context(), collection, id, body); err != nil {
				return err
			}
			log.Info().Str("collection", collection).Str("id", id).Int("bytes", len(body)).Msg("document imported")
			return nil
		},
	}
	cmd.Flags().StringVar(&collection, "collection", "", "btc_prices, ahr999, halving or btc_stats")
	cmd.Flags().StringVar(&id, "id", "", "document id, e.g. 2024 or latest")
	cmd.Flags().StringVarP(&file, "file", "f", "", "JSON file to import")
	_ = cmd.MarkFlagRequired("collection")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}
