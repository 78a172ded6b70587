package mssql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/microsoft/go-mssqldb"

	"threadgram-scraper/internal/checksum"
	"threadgram-scraper/internal/observability"
	"threadgram-scraper/internal/storage"
)

type Repository struct {
	db             *sql.DB
	commandTimeout time.Duration
	checksum       *checksum.Generator
	logger         *observability.Logger
}

func NewRepository(dsn string, commandTimeoutMS int, logger *observability.Logger) (*Repository, error) {
	db, err := sql.Open("sqlserver", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Тестируем соединение
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Repository{
		db:             db,
		commandTimeout: time.Duration(commandTimeoutMS) * time.Millisecond,
		checksum:       checksum.NewGenerator(),
		logger:         logger,
	}, nil
}

// SaveResult перезаписывает результат прогона для username: MERGE строки
// прогона плюс транзакционная замена строк изображений. Если checksum
// структуры не изменился, строки изображений не переписываются.
func (r *Repository) SaveResult(ctx context.Context, result *storage.ScrapeResult) error {
	ctx, cancel := context.WithTimeout(ctx, r.commandTimeout)
	defer cancel()

	newCheckSum := r.checksum.GenerateResultHash(result.Username, result.Posts)

	prevCheckSum, err := r.getCheckSum(ctx, result.Username)
	if err != nil {
		return err
	}
	unchanged := prevCheckSum != "" && prevCheckSum == newCheckSum

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			r.logger.Error("Failed to rollback transaction", "error", err.Error())
		}
	}()

	mergeQuery := `
		MERGE INTO TblScrapes AS target
		USING (SELECT @Username AS Username) AS source
		ON target.[Username] = source.Username
		WHEN MATCHED THEN
			UPDATE SET
				[ScrapedAt] = @ScrapedAt,
				[TotalImages] = @TotalImages,
				[TotalPosts] = @TotalPosts,
				[CheckSum] = @CheckSum
		WHEN NOT MATCHED THEN
			INSERT ([Username], [ScrapedAt], [TotalImages], [TotalPosts], [CheckSum])
			VALUES (@Username, @ScrapedAt, @TotalImages, @TotalPosts, @CheckSum);
	`

	_, err = tx.ExecContext(ctx, mergeQuery,
		sql.Named("Username", result.Username),
		sql.Named("ScrapedAt", result.ScrapedAt),
		sql.Named("TotalImages", result.TotalImages),
		sql.Named("TotalPosts", result.TotalPosts),
		sql.Named("CheckSum", newCheckSum),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert scrape row: %w", err)
	}

	if unchanged {
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit transaction: %w", err)
		}
		r.logger.Info("Scrape structure unchanged, image rows kept",
			"username", result.Username,
			"checksum", newCheckSum,
		)
		return nil
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM TblScrapeImages WHERE Username = @Username`,
		sql.Named("Username", result.Username),
	); err != nil {
		return fmt.Errorf("failed to delete old image rows: %w", err)
	}

	insertQuery := `
		INSERT INTO TblScrapeImages ([Username], [PostNum], [SequenceNum], [URL])
		VALUES (@Username, @PostNum, @SequenceNum, @URL)
	`
	stmt, err := tx.PrepareContext(ctx, insertQuery)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() {
		if err := stmt.Close(); err != nil {
			r.logger.Error("Failed to close statement", "error", err.Error())
		}
	}()

	for postNum, post := range result.Posts {
		for seqNum, url := range post {
			if _, err := stmt.ExecContext(ctx,
				sql.Named("Username", result.Username),
				sql.Named("PostNum", postNum),
				sql.Named("SequenceNum", seqNum),
				sql.Named("URL", url),
			); err != nil {
				return fmt.Errorf("failed to insert image row: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	r.logger.Info("Result saved to database",
		"username", result.Username,
		"total_images", result.TotalImages,
		"total_posts", result.TotalPosts,
	)

	return nil
}

// getCheckSum читает checksum предыдущего прогона; пустая строка — прогона не было
func (r *Repository) getCheckSum(ctx context.Context, username string) (string, error) {
	query := `SELECT [CheckSum] FROM TblScrapes WHERE Username = @Username`

	var sum string
	err := r.db.QueryRowContext(ctx, query, sql.Named("Username", username)).Scan(&sum)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("failed to query database: %w", err)
	}

	return sum, nil
}

// Close закрывает соединение с БД
func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}
