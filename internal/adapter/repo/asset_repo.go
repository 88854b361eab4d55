package repo

import (
	"context"
	"time"

	"creativestudio/internal/domain"
	"creativestudio/internal/infra"
	"creativestudio/internal/sqlinline"
)

// AssetRepositoryPG implements domain.AssetRepository using PostgreSQL.
type AssetRepositoryPG struct {
	sql infra.SQLExecutor
}

// NewAssetRepository constructs a new asset repository instance.
func NewAssetRepository(sql infra.SQLExecutor) *AssetRepositoryPG {
	return &AssetRepositoryPG{sql: sql}
}

func (r *AssetRepositoryPG) Create(ctx context.Context, asset *domain.Asset) error {
	if asset.CreatedAt.IsZero() {
		asset.CreatedAt = time.Now().UTC()
	}
	_, err := r.sql.Exec(ctx, sqlinline.QInsertAsset,
		asset.ID,
		asset.DeviceID,
		asset.URL,
		asset.ThumbURL,
		asset.Width,
		asset.Height,
		asset.MimeType,
		asset.CreatedAt,
	)
	return err
}

func (r *AssetRepositoryPG) GetByID(ctx context.Context, assetID string) (*domain.Asset, error) {
	row := r.sql.QueryRow(ctx, sqlinline.QSelectAssetByID, assetID)
	var asset domain.Asset
	if err := row.Scan(
		&asset.ID,
		&asset.DeviceID,
		&asset.URL,
		&asset.ThumbURL,
		&asset.Width,
		&asset.Height,
		&asset.MimeType,
		&asset.CreatedAt,
	); err != nil {
		if infra.IsNoRows(err) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &asset, nil
}

var _ domain.AssetRepository = (*AssetRepositoryPG)(nil)
