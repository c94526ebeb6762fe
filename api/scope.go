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

func (a *Api) CheckScopeConflict(ctx context.Context, bID string, targetScope model.Scope) (*model.ScopeConflict, error) {
	if _, ok := model.ScopeMap[targetScope]; !ok {
		return nil, model.NewInvalidInputError(fmt.Errorf("unknown scope '%s'", targetScope))
	}
	return a.scopeHandler.CheckConflict(ctx, bID, targetScope)
}

func (a *Api) MigrateBundle(_ context.Context, req model.MigrateRequest) (string, error) {
	if _, ok := model.ScopeMap[req.FromScope]; !ok {
		return "", model.NewInvalidInputError(fmt.Errorf("unknown scope '%s'", req.FromScope))
	}
	if _, ok := model.ScopeMap[req.ToScope]; !ok {
		return "", model.NewInvalidInputError(fmt.Errorf("unknown scope '%s'", req.ToScope))
	}
	if req.FromScope == req.ToScope {
		return "", model.NewInvalidInputError(fmt.Errorf("source and target scope are identical"))
	}
	return a.jobHandler.Create(fmt.Sprintf("migrate bundle '%s' from '%s' to '%s'", req.ID, req.FromScope, req.ToScope), func(ctx context.Context, cf context.CancelFunc) error {
		defer cf()
		err := a.scopeHandler.Migrate(ctx, req.ID, req.FromScope, req.ToScope, a.migrateUninstall, a.migrateInstall)
		if err == nil {
			err = ctx.Err()
		}
		return err
	})
}

func (a *Api) migrateUninstall(ctx context.Context, installed model.InstalledBundle) error {
	return a.bundleHandler.Uninstall(ctx, installed.ID, installed.Scope)
}

func (a *Api) migrateInstall(ctx context.Context, installed model.InstalledBundle, toScope model.Scope) error {
	_, err := a.bundleHandler.Install(ctx, model.InstallRequest{
		ID:         installed.ID,
		Version:    installed.Version,
		Scope:      toScope,
		CommitMode: installed.CommitMode,
		Force:      true,
	})
	return err
}
