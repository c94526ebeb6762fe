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
	"github.com/bundle-works/bundle-manager/lib/model"
	"strings"
)

func genListRecordsFilter(filter model.RecordFilter) (string, []any) {
	var fc []string
	var val []any
	if filter.ID != "" {
		fc = append(fc, "`id` = ?")
		val = append(val, filter.ID)
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

func (h *Handler) ListRecords(ctx context.Context, filter model.RecordFilter) ([]model.BundleRecord, error) {
	q := "SELECT `id`, `version`, `source_id`, `source_type`, `download_url`, `manifest_url`, `name`, `description` FROM `bundle_records`"
	fc, val := genListRecordsFilter(filter)
	if fc != "" {
		q += fc
	}
	rows, err := h.db.QueryContext(ctx, q+" ORDER BY `id`, `version`", val...)
	if err != nil {
		return nil, model.NewInternalError(err)
	}
	defer rows.Close()
	var records []model.BundleRecord
	for rows.Next() {
		var record model.BundleRecord
		if err = rows.Scan(&record.ID, &record.Version, &record.SourceID, &record.SourceType, &record.DownloadURL, &record.ManifestURL, &record.Name, &record.Description); err != nil {
			return nil, model.NewInternalError(err)
		}
		records = append(records, record)
	}
	if err = rows.Err(); err != nil {
		return nil, model.NewInternalError(err)
	}
	return records, nil
}

// ReplaceRecords swaps a source's record set in one transaction.
func (h *Handler) ReplaceRecords(ctx context.Context, sID string, records []model.BundleRecord) error {
	tx, err := h.db.BeginTx(ctx, nil)
	if err != nil {
		return model.NewInternalError(err)
	}
	defer tx.Rollback()
	if _, err = tx.ExecContext(ctx, "DELETE FROM `bundle_records` WHERE `source_id` = ?", sID); err != nil {
		return model.NewInternalError(err)
	}
	stmt, err := tx.PrepareContext(ctx, "INSERT INTO `bundle_records` (`id`, `version`, `source_id`, `source_type`, `download_url`, `manifest_url`, `name`, `description`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)")
	if err != nil {
		return model.NewInternalError(err)
	}
	defer stmt.Close()
	for _, record := range records {
		if _, err = stmt.ExecContext(ctx, record.ID, record.Version, sID, record.SourceType, record.DownloadURL, record.ManifestURL, record.Name, record.Description); err != nil {
			return model.NewInternalError(err)
		}
	}
	if err = tx.Commit(); err != nil {
		return model.NewInternalError(err)
	}
	return nil
}
