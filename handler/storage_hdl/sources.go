/*
 * Copyright 2024 InfAI (CC SES)
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *    http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package storage_hdl

import (
	"context"
	"database/sql"
	"errors"
	"github.com/bundle-works/bundle-manager/lib/model"
	"time"
)

func (h *Handler) ListSources(ctx context.Context) ([]model.Source, error) {
	rows, err := h.db.QueryContext(ctx, "SELECT `id`, `type`, `name`, `url`, `added`, `synced` FROM `sources` ORDER BY `id`")
	if err != nil {
		return nil, model.NewInternalError(err)
	}
	defer rows.Close()
	var sources []model.Source
	for rows.Next() {
		src, err := scanSource(rows.Scan)
		if err != nil {
			return nil, err
		}
		sources = append(sources, src)
	}
	if err = rows.Err(); err != nil {
		return nil, model.NewInternalError(err)
	}
	return sources, nil
}

func (h *Handler) ReadSource(ctx context.Context, sID string) (model.Source, error) {
	row := h.db.QueryRowContext(ctx, "SELECT `id`, `type`, `name`, `url`, `added`, `synced` FROM `sources` WHERE `id` = ?", sID)
	src, err := scanSource(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Source{}, model.NewNotFoundError(err)
		}
		return model.Source{}, err
	}
	return src, nil
}

func (h *Handler) CreateSource(ctx context.Context, source model.Source) error {
	_, err := h.db.ExecContext(ctx, "INSERT INTO `sources` (`id`, `type`, `name`, `url`, `added`) VALUES (?, ?, ?, ?, ?)", source.ID, source.Type, source.Name, source.URL, source.Added)
	if err != nil {
		return model.NewInternalError(err)
	}
	return nil
}

func (h *Handler) DeleteSource(ctx context.Context, sID string) error {
	tx, err := h.db.BeginTx(ctx, nil)
	if err != nil {
		return model.NewInternalError(err)
	}
	defer tx.Rollback()
	if _, err = tx.ExecContext(ctx, "DELETE FROM `bundle_records` WHERE `source_id` = ?", sID); err != nil {
		return model.NewInternalError(err)
	}
	res, err := tx.ExecContext(ctx, "DELETE FROM `sources` WHERE `id` = ?", sID)
	if err != nil {
		return model.NewInternalError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return model.NewInternalError(err)
	}
	if n < 1 {
		return model.NewNotFoundError(errors.New("no rows affected"))
	}
	if err = tx.Commit(); err != nil {
		return model.NewInternalError(err)
	}
	return nil
}

func (h *Handler) SetSourceSynced(ctx context.Context, sID string) error {
	res, err := h.db.ExecContext(ctx, "UPDATE `sources` SET `synced` = ? WHERE `id` = ?", time.Now().UTC(), sID)
	if err != nil {
		return model.NewInternalError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return model.NewInternalError(err)
	}
	if n < 1 {
		return model.NewNotFoundError(errors.New("no rows affected"))
	}
	return nil
}

func scanSource(scan func(dest ...any) error) (model.Source, error) {
	var src model.Source
	var at []uint8
	var st sql.NullString
	if err := scan(&src.ID, &src.Type, &src.Name, &src.URL, &at, &st); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Source{}, err
		}
		return model.Source{}, model.NewInternalError(err)
	}
	ta, err := time.Parse(tLayout, string(at))
	if err != nil {
		return model.Source{}, model.NewInternalError(err)
	}
	src.Added = ta
	if st.Valid {
		ts, err := time.Parse(tLayout, st.String)
		if err != nil {
			return model.Source{}, model.NewInternalError(err)
		}
		src.Synced = &ts
	}
	return src, nil
}
