// Package seed bulk-loads tags and ingredients from CSV files.
package seed

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"foodgram/entities"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const batchSize = 500

// readRows returns the trimmed records of r, skipping blank lines and a header matching header.
func readRows(r io.Reader, header []string) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = len(header)
	reader.TrimLeadingSpace = true

	var rows [][]string
	for line := 1; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		for i := range record {
			record[i] = strings.TrimSpace(record[i])
		}
		if line == 1 && strings.EqualFold(strings.Join(record, ","), strings.Join(header, ",")) {
			continue
		}
		if strings.Join(record, "") == "" {
			continue
		}
		rows = append(rows, record)
	}
	return rows, nil
}

// Tags inserts name,color,slug rows; rows clashing with an existing tag are skipped.
func Tags(ctx context.Context, db *gorm.DB, r io.Reader) (int64, error) {
	rows, err := readRows(r, []string{"name", "color", "slug"})
	if err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}

	tags := make([]entities.Tag, 0, len(rows))
	for _, row := range rows {
		tags = append(tags, entities.Tag{Name: row[0], Color: strings.ToUpper(row[1]), Slug: row[2]})
	}

	res := db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		CreateInBatches(&tags, batchSize)
	return res.RowsAffected, res.Error
}

// Ingredients inserts name,measurement_unit rows; known pairs are skipped.
func Ingredients(ctx context.Context, db *gorm.DB, r io.Reader) (int64, error) {
	rows, err := readRows(r, []string{"name", "measurement_unit"})
	if err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}

	ingredients := make([]entities.Ingredient, 0, len(rows))
	for _, row := range rows {
		ingredients = append(ingredients, entities.Ingredient{Name: row[0], MeasurementUnit: row[1]})
	}

	res := db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		CreateInBatches(&ingredients, batchSize)
	return res.RowsAffected, res.Error
}

// FromFile opens path and feeds it to load.
func FromFile(
	ctx context.Context,
	db *gorm.DB,
	log *logrus.Logger,
	path string,
	load func(context.Context, *gorm.DB, io.Reader) (int64, error),
) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	inserted, err := load(ctx, db, file)
	if err != nil {
		return fmt.Errorf("seeding from %s: %w", path, err)
	}

	log.WithFields(logrus.Fields{"file": path, "inserted": inserted}).Info("seed loaded")
	return nil
}
