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
	"fmt"
	"github.com/bundle-works/bundle-manager/lib/model"
)

func (a *Api) UpdateBundle(_ context.Context, req model.UpdateRequest) (string, error) {
	return a.jobHandler.Create(fmt.Sprintf("update bundle '%s'", req.ID), func(ctx context.Context, cf context.CancelFunc) error {
		defer cf()
		err := a.updateHandler.Update(ctx, req.ID, req.Version)
		if err == nil {
			err = ctx.Err()
		}
		return err
	})
}

func (a *Api) AutoUpdateBundles(_ context.Context, items []model.BatchUpdateItem) (string, error) {
	return a.jobHandler.Create(fmt.Sprintf("auto update %d bundles", len(items)), func(ctx context.Context, cf context.CancelFunc) error {
		defer cf()
		result := a.updateHandler.AutoUpdate(ctx, items)
		if len(result.Failed) > 0 {
			return model.NewInternalError(fmt.Errorf("%d of %d updates failed", len(result.Failed), len(result.Failed)+len(result.Succeeded)))
		}
		return ctx.Err()
	})
}

func (a *Api) IsUpdateInProgress(_ context.Context, bID string) (bool, error) {
	return a.updateHandler.IsUpdateInProgress(bID), nil
}
