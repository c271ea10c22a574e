// Package cleanup は期限切れログイントークンの自動削除ジョブを提供する。
// 期限切れのトークンは認証時に無効として扱われるため、削除は容量の回収のみを目的とする。
package cleanup

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"
)

// Executor はSQLのExecContextを抽象化するインターフェース。
// *sql.DB や *sql.Tx を受け付けることができる。
type Executor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// PurgeRecorder は削除件数のメトリクス記録インターフェース。
// metrics.Collectorが実装する。
type PurgeRecorder interface {
	RecordTokensPurged(count int)
}

// TokenCleanupJob は期限切れトークンの削除ジョブ。冪等に実行できる。
type TokenCleanupJob struct {
	db       Executor
	logger   *slog.Logger
	recorder PurgeRecorder
}

// NewTokenCleanupJob は新しいTokenCleanupJobを生成する。recorderはnilでもよい。
func NewTokenCleanupJob(db Executor, logger *slog.Logger, recorder PurgeRecorder) *TokenCleanupJob {
	return &TokenCleanupJob{
		db:       db,
		logger:   logger,
		recorder: recorder,
	}
}

// Run は有効期限を過ぎたトークンを削除し、削除件数を返す。
// 削除対象がない場合でもエラーにならない。
func (j *TokenCleanupJob) Run(ctx context.Context) (int64, error) {
	start := time.Now()

	query := `DELETE FROM auth_tokens WHERE expires_at <= now()`
	result, err := j.db.ExecContext(ctx, query)
	if err != nil {
		j.logger.Error("トークンクリーンアップジョブの実行に失敗しました",
			slog.String("error", err.Error()),
		)
		return 0, fmt.Errorf("トークンクリーンアップの実行に失敗: %w", err)
	}

	deletedCount, err := result.RowsAffected()
	if err != nil {
		j.logger.Error("削除件数の取得に失敗しました",
			slog.String("error", err.Error()),
		)
		return 0, fmt.Errorf("削除件数の取得に失敗: %w", err)
	}

	if j.recorder != nil {
		j.recorder.RecordTokensPurged(int(deletedCount))
	}

	j.logger.Info("トークンクリーンアップジョブが完了しました",
		slog.Int64("deleted_count", deletedCount),
		slog.Float64("duration_ms", float64(time.Since(start).Milliseconds())),
	)

	return deletedCount, nil
}

// Start は起動直後に1回、その後interval毎にRunを実行する。
// ctxがキャンセルされるまでブロックする。実行失敗はログに記録して次回に持ち越す。
// intervalが0以下の場合は何もせずに戻る。
func (j *TokenCleanupJob) Start(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		j.logger.Error("トークンクリーンアップの実行間隔が不正です",
			slog.Duration("interval", interval),
		)
		return
	}

	j.runOnce(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			j.runOnce(ctx)
		}
	}
}

func (j *TokenCleanupJob) runOnce(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	// エラーはRun内で記録済み
	_, _ = j.Run(ctx)
}
