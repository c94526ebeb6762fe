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

package update_hdl

import (
	"context"
	"github.com/bundle-works/bundle-manager/lib/model"
	"sync"
)

// batchChunkSize caps the number of in-flight updates during a batch.
const batchChunkSize = 3

// AutoUpdate processes all items with the auto update flag set in chunks of
// batchChunkSize. Chunk members run concurrently and a member's failure does
// not cancel its siblings. One batch summary is emitted after all chunks
// completed, its success and failure counts sum to the filtered input size.
func (h *Handler) AutoUpdate(ctx context.Context, items []model.BatchUpdateItem) model.BatchUpdateResult {
	var filtered []model.BatchUpdateItem
	for _, item := range items {
		if item.AutoUpdate {
			filtered = append(filtered, item)
		}
	}
	itemErrs := make([]error, len(filtered))
	for i := 0; i < len(filtered); i += batchChunkSize {
		end := i + batchChunkSize
		if end > len(filtered) {
			end = len(filtered)
		}
		wg := &sync.WaitGroup{}
		for j := i; j < end; j++ {
			wg.Add(1)
			go func(pos int) {
				defer wg.Done()
				itemErrs[pos] = h.Update(ctx, filtered[pos].ID, filtered[pos].Version)
			}(j)
		}
		wg.Wait()
	}
	var result model.BatchUpdateResult
	for pos, item := range filtered {
		if err := itemErrs[pos]; err != nil {
			result.Failed = append(result.Failed, model.BatchUpdateFailure{ID: item.ID, Message: err.Error()})
		} else {
			result.Succeeded = append(result.Succeeded, item.ID)
		}
	}
	h.notificationHandler.NotifyBatchSummary(result.Succeeded, result.Failed)
	return result
}
