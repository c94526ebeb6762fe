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
	"strings"
	"time"
)

func genListInstalledFilter(filter model.InstalledFilter) (string, []any) {
	var fc []string
	var val []any
	if filter.Scope != "" {
		fc = append(fc, "`scope` = ?")
		val = append(val, filter.Scope)
	}
	if filter.SourceID != "" {
		fc = append(fc, "`source_id` = ?")
		val = append(val, filter.SourceID)
	}
	if len(fc) > 0 {
		return " WHERE " + strings.Join(fc, " AND "), val
	}
	return "", nil
}

func (h *Handler) ListInstalled(ctx context.Context, filter model.InstalledFilter) ([]model.InstalledBundle, error) {
	q := "SELECT `id`, `version`, `scope`, `source_id`, `source_type`, `install_path`, `commit_mode`, `added`, `updated` FROM `installed_bundles`"
	fc, val := genListInstalledFilter(filter)
	if fc != "" {
		q += fc
	}
	rows, err := h.db.QueryContext(ctx, q+" ORDER BY `id`", val...)
	if err != nil {
		return nil, model.NewInternalError(err)
	}
	defer rows.Close()
	var installed []model.InstalledBundle
	for rows.Next() {
		ib, err := scanInstalled(rows.Scan)
		if err != nil {
			return nil, err
		}
		installed = append(installed, ib)
	}
	if err = rows.Err(); err != nil {
		return nil, model.NewInternalError(err)
	}
	return installed, nil
}

func (h *Handler) ReadInstalled(ctx context.Context, bID string, scope model.Scope) (model.InstalledBundle, error) {
	row := h.db.QueryRowContext(ctx, "SELECT `id`, `version`, `scope`, `source_id`, `source_type`, `install_path`, `commit_mode`, `added`, `updated` FROM `installed_bundles` WHERE `id` = ? AND `scope` = ?", bID, scope)
	ib, err := scanInstalled(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.InstalledBundle{}, model.NewNotFoundError(err)
		}
		return model.InstalledBundle{}, err
	}
	return ib, nil
}

func (h *Handler) CreateInstalled(ctx context.Context, installed model.InstalledBundle) error {
	_, err := h.db.ExecContext(ctx, "INSERT INTO `installed_bundles` (`id`, `version`, `scope`, `source_id`, `source_type`, `install_path`, `commit_mode`, `added`, `updated`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)", installed.ID, installed.Version, installed.Scope, installed.SourceID, installed.SourceType, installed.InstallPath, installed.CommitMode, installed.Added, installed.Updated)
	if err != nil {
		return model.NewInternalError(err)
	}
	return nil
}

func (h *Handler) UpdateInstalled(ctx context.Context, installed model.InstalledBundle) error {
	res, err := h.db.ExecContext(ctx, "UPDATE `installed_bundles` SET `version` = ?, `source_id` = ?, `source_type` = ?, `install_path` = ?, `commit_mode` = ?, `updated` = ? WHERE `id` = ? AND `scope` = ?", installed.Version, installed.SourceID, installed.SourceType, installed.InstallPath, installed.CommitMode, installed.Updated, installed.ID, installed.Scope)
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

func (h *Handler) DeleteInstalled(ctx context.Context, bID string, scope model.Scope) error {
	res, err := h.db.ExecContext(ctx, "DELETE FROM `installed_bundles` WHERE `id` = ? AND `scope` = ?", bID, scope)
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

func scanInstalled(scan func(dest ...any) error) (model.InstalledBundle, error) {
	var ib model.InstalledBundle
	var at, ut []uint8
	if err := scan(&ib.ID, &ib.Version, &ib.Scope, &ib.SourceID, &ib.SourceType, &ib.InstallPath, &ib.CommitMode, &at, &ut); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.InstalledBundle{}, err
		}
		return model.InstalledBundle{}, model.NewInternalError(err)
	}
	ta, err := time.Parse(tLayout, string(at))
	if err != nil {
		return model.InstalledBundle{}, model.NewInternalError(err)
	}
	tu, err := time.Parse(tLayout, string(ut))
	if err != nil {
		return model.InstalledBundle{}, model.NewInternalError(err)
	}
	ib.Added = ta
	ib.Updated = tu
	return ib, nil
}
