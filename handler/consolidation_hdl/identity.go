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

package consolidation_hdl

import (
	"github.com/bundle-works/bundle-manager/lib/model"
	"regexp"
)

// versionSuffixRegex matches a trailing dotted version triple with an optional
// pre-release suffix, e.g. "-1.2.3", "-v0.10.0", "-v1.2.3-beta.1" or
// "-1.2.3-rc-1". Dash separated digit runs without dots ("tool-2-0-0") do not
// match and stay part of the identity.
var versionSuffixRegex = regexp.MustCompile(`-v?\d{1,3}\.\d{1,3}\.\d{1,3}(-[0-9A-Za-z.-]+)?$`)

func (h *Handler) identity(record model.BundleRecord) string {
	if h.resolver != nil {
		return h.resolver(record)
	}
	switch record.SourceType {
	case model.GitTagSourceType:
		return ExtractIdentity(record.ID)
	default:
		return record.ID
	}
}

// ExtractIdentity strips a trailing version suffix from a bundle id. Ids
// without such a suffix are returned unchanged.
func ExtractIdentity(bID string) string {
	loc := versionSuffixRegex.FindStringIndex(bID)
	if loc == nil || loc[0] == 0 {
		return bID
	}
	return bID[:loc[0]]
}
