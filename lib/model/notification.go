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

package model

import "time"

type UpdateSuccess struct {
	BundleID   string    `json:"bundle_id"`
	OldVersion string    `json:"old_version"`
	NewVersion string    `json:"new_version"`
	Time       time.Time `json:"time"`
}

type UpdateFailure struct {
	BundleID string    `json:"bundle_id"`
	Message  string    `json:"message"`
	Time     time.Time `json:"time"`
}

type BatchSummary struct {
	Succeeded []string             `json:"succeeded"`
	Failed    []BatchUpdateFailure `json:"failed"`
	Time      time.Time            `json:"time"`
}
