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

func (a *Api) GetSources(ctx context.Context) ([]model.Source, error) {
	return a.sourceHandler.List(ctx)
}

func (a *Api) GetSource(ctx context.Context, sID string) (model.Source, error) {
	return a.sourceHandler.Get(ctx, sID)
}

func (a *Api) AddSource(ctx context.Context, req model.SourceRequest) error {
	return a.sourceHandler.Add(ctx, req)
}

func (a *Api) DeleteSource(ctx context.Context, sID string) error {
	return a.sourceHandler.Delete(ctx, sID)
}

func (a *Api) ResyncSource(_ context.Context, sID string) (string, error) {
	return a.jobHandler.Create(fmt.Sprintf("resync source '%s'", sID), func(ctx context.Context, cf context.CancelFunc) error {
		defer cf()
		err := a.sourceHandler.Resync(ctx, sID)
		if err == nil {
			err = ctx.Err()
		}
		return err
	})
}
