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

package api

import (
	"context"
	"github.com/bundle-works/bundle-manager/lib/model"
)

// GetBundles lists the catalog as consolidated entries, one per logical
// identity with the highest version selected.
func (a *Api) GetBundles(ctx context.Context, filter model.RecordFilter) ([]model.ConsolidatedBundle, error) {
	records, err := a.recordStorageHandler.ListRecords(ctx, filter)
	if err != nil {
		return nil, err
	}
	return a.consolidationHandler.Consolidate(records), nil
}

func (a *Api) GetBundleVersions(ctx context.Context, identity string) ([]model.BundleRecord, error) {
	versions := a.consolidationHandler.GetAllVersions(identity)
	if len(versions) > 0 {
		return versions, nil
	}
	// cold cache, repopulate from storage
	records, err := a.recordStorageHandler.ListRecords(ctx, model.RecordFilter{})
	if err != nil {
		return nil, err
	}
	a.consolidationHandler.Consolidate(records)
	return a.consolidationHandler.GetAllVersions(identity), nil
}
