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

package job_hdl

import (
	"context"
	"github.com/bundle-works/bundle-manager/lib/model"
	"sync"
	"time"
)

// job satisfies the ccjh job contract via CallTarget and IsCanceled.
type job struct {
	meta   model.Job
	target func(context.Context, context.CancelFunc) error
	ctx    context.Context
	cancel context.CancelFunc
	mu     sync.RWMutex
}

func (j *job) CallTarget(cbk func()) {
	j.mu.Lock()
	started := time.Now().UTC()
	j.meta.Started = &started
	j.mu.Unlock()
	err := j.target(j.ctx, j.cancel)
	j.mu.Lock()
	if err != nil {
		j.meta.Error = err.Error()
	}
	completed := time.Now().UTC()
	j.meta.Completed = &completed
	j.mu.Unlock()
	cbk()
}

func (j *job) IsCanceled() bool {
	return j.ctx.Err() == context.Canceled
}

func (j *job) Cancel() {
	j.cancel()
	j.mu.Lock()
	canceled := time.Now().UTC()
	j.meta.Canceled = &canceled
	j.mu.Unlock()
}

func (j *job) snapshot() model.Job {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.meta
}
