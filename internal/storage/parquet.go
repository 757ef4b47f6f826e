package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/apache/arrow/go/v14/arrow"
	"github.com/apache/arrow/go/v14/arrow/array"
	"github.com/apache/arrow/go/v14/arrow/memory"
	"github.com/apache/arrow/go/v14/parquet"
	"github.com/apache/arrow/go/v14/parquet/file"
	"github.com/apache/arrow/go/v14/parquet/pqarrow"

	"github.com/e-ashitey/smart-history-manager/internal/models"
)

// ParquetStorage holds the compacted main files. Each entity set lives
// in its own Parquet file under dataDir; missing files read as empty.
type ParquetStorage struct {
	dataDir string
}

func NewParquetStorage(dataDir string) *ParquetStorage {
	os.MkdirAll(dataDir, 0755)
	return &ParquetStorage{dataDir: dataDir}
}

func historySchema() *arrow.Schema {
	return arrow.NewSchema([]arrow.Field{
		{Name: "url", Type: arrow.BinaryTypes.String},
		{Name: "title", Type: arrow.BinaryTypes.String},
		{Name: "visit_count", Type: arrow.PrimitiveTypes.Int32},
		{Name: "last_visit_time", Type: arrow.FixedWidthTypes.Timestamp_ms},
	}, nil)
}

func preferenceSchema() *arrow.Schema {
	return arrow.NewSchema([]arrow.Field{
		{Name: "domain", Type: arrow.BinaryTypes.String},
		{Name: "value", Type: arrow.BinaryTypes.String},
		{Name: "updated_at", Type: arrow.FixedWidthTypes.Timestamp_ms},
	}, nil)
}

func ignoreCountSchema() *arrow.Schema {
	return arrow.NewSchema([]arrow.Field{
		{Name: "domain", Type: arrow.BinaryTypes.String},
		{Name: "count", Type: arrow.PrimitiveTypes.Int32},
		{Name: "updated_at", Type: arrow.FixedWidthTypes.Timestamp_ms},
	}, nil)
}

func (ps *ParquetStorage) WriteHistory(items []models.HistoryItem) error {
	schema := historySchema()
	builder := array.NewRecordBuilder(memory.NewGoAllocator(), schema)
	defer builder.Release()

	for _, item := range items {
		builder.Field(0).(*array.StringBuilder).Append(item.URL)
		builder.Field(1).(*array.StringBuilder).Append(item.Title)
		builder.Field(2).(*array.Int32Builder).Append(int32(item.VisitCount))
		builder.Field(3).(*array.TimestampBuilder).Append(arrow.Timestamp(item.LastVisitTime))
	}

	return ps.writeRecord(schema, builder, "history.parquet")
}

func (ps *ParquetStorage) ReadHistory() ([]models.HistoryItem, error) {
	table, err := ps.readTable("history.parquet")
	if err != nil || table == nil {
		return []models.HistoryItem{}, err
	}
	defer table.Release()

	var items []models.HistoryItem
	for i := 0; i < int(table.NumRows()); i++ {
		urlCol := table.Column(0).Data().Chunk(0).(*array.String)
		titleCol := table.Column(1).Data().Chunk(0).(*array.String)
		visitCountCol := table.Column(2).Data().Chunk(0).(*array.Int32)
		lastVisitCol := table.Column(3).Data().Chunk(0).(*array.Timestamp)

		items = append(items, models.HistoryItem{
			URL:           urlCol.Value(i),
			Title:         titleCol.Value(i),
			VisitCount:    int(visitCountCol.Value(i)),
			LastVisitTime: int64(lastVisitCol.Value(i)),
		})
	}

	return items, nil
}

func (ps *ParquetStorage) WritePreferences(prefs []models.DomainPreference) error {
	schema := preferenceSchema()
	builder := array.NewRecordBuilder(memory.NewGoAllocator(), schema)
	defer builder.Release()

	for _, pref := range prefs {
		builder.Field(0).(*array.StringBuilder).Append(pref.Domain)
		builder.Field(1).(*array.StringBuilder).Append(pref.Value)
		builder.Field(2).(*array.TimestampBuilder).Append(arrow.Timestamp(pref.UpdatedAt.UnixMilli()))
	}

	return ps.writeRecord(schema, builder, "preferences.parquet")
}

func (ps *ParquetStorage) ReadPreferences() ([]models.DomainPreference, error) {
	table, err := ps.readTable("preferences.parquet")
	if err != nil || table == nil {
		return []models.DomainPreference{}, err
	}
	defer table.Release()

	var prefs []models.DomainPreference
	for i := 0; i < int(table.NumRows()); i++ {
		domainCol := table.Column(0).Data().Chunk(0).(*array.String)
		valueCol := table.Column(1).Data().Chunk(0).(*array.String)
		updatedCol := table.Column(2).Data().Chunk(0).(*array.Timestamp)

		prefs = append(prefs, models.DomainPreference{
			Domain:    domainCol.Value(i),
			Value:     valueCol.Value(i),
			UpdatedAt: time.UnixMilli(int64(updatedCol.Value(i))),
		})
	}

	return prefs, nil
}

func (ps *ParquetStorage) WriteIgnoreCounts(counters []models.IgnoreCounter) error {
	schema := ignoreCountSchema()
	builder := array.NewRecordBuilder(memory.NewGoAllocator(), schema)
	defer builder.Release()

	for _, counter := range counters {
		builder.Field(0).(*array.StringBuilder).Append(counter.Domain)
		builder.Field(1).(*array.Int32Builder).Append(int32(counter.Count))
		builder.Field(2).(*array.TimestampBuilder).Append(arrow.Timestamp(counter.UpdatedAt.UnixMilli()))
	}

	return ps.writeRecord(schema, builder, "ignore_counts.parquet")
}

func (ps *ParquetStorage) ReadIgnoreCounts() ([]models.IgnoreCounter, error) {
	table, err := ps.readTable("ignore_counts.parquet")
	if err != nil || table == nil {
		return []models.IgnoreCounter{}, err
	}
	defer table.Release()

	var counters []models.IgnoreCounter
	for i := 0; i < int(table.NumRows()); i++ {
		domainCol := table.Column(0).Data().Chunk(0).(*array.String)
		countCol := table.Column(1).Data().Chunk(0).(*array.Int32)
		updatedCol := table.Column(2).Data().Chunk(0).(*array.Timestamp)

		counters = append(counters, models.IgnoreCounter{
			Domain:    domainCol.Value(i),
			Count:     int(countCol.Value(i)),
			UpdatedAt: time.UnixMilli(int64(updatedCol.Value(i))),
		})
	}

	return counters, nil
}

func (ps *ParquetStorage) writeRecord(schema *arrow.Schema, builder *array.RecordBuilder, name string) error {
	record := builder.NewRecord()
	defer record.Release()

	f, err := os.Create(filepath.Join(ps.dataDir, name))
	if err != nil {
		return err
	}
	defer f.Close()

	writer, err := pqarrow.NewFileWriter(schema, f, parquet.NewWriterProperties(), pqarrow.DefaultWriterProps())
	if err != nil {
		return err
	}
	defer writer.Close()

	return writer.Write(record)
}

// readTable returns nil without error when the file does not exist yet
// or holds no rows.
func (ps *ParquetStorage) readTable(name string) (arrow.Table, error) {
	filename := filepath.Join(ps.dataDir, name)
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return nil, nil
	}

	fileReader, err := file.OpenParquetFile(filename, false)
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet file: %w", err)
	}
	defer fileReader.Close()

	reader, err := pqarrow.NewFileReader(fileReader, pqarrow.ArrowReadProperties{}, memory.DefaultAllocator)
	if err != nil {
		return nil, fmt.Errorf("failed to create parquet reader: %w", err)
	}

	table, err := reader.ReadTable(context.Background())
	if err != nil {
		return nil, fmt.Errorf("failed to read table: %w", err)
	}
	if table.NumRows() == 0 {
		table.Release()
		return nil, nil
	}

	return table, nil
}
