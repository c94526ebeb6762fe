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

import "fmt"

type InternalError struct {
	err error
}

func NewInternalError(err error) *InternalError {
	return &InternalError{err: err}
}

func (e *InternalError) Error() string {
	return e.err.Error()
}

func (e *InternalError) Unwrap() error {
	return e.err
}

type NotFoundError struct {
	err error
}

func NewNotFoundError(err error) *NotFoundError {
	return &NotFoundError{err: err}
}

func (e *NotFoundError) Error() string {
	return e.err.Error()
}

func (e *NotFoundError) Unwrap() error {
	return e.err
}

type InvalidInputError struct {
	err error
}

func NewInvalidInputError(err error) *InvalidInputError {
	return &InvalidInputError{err: err}
}

func (e *InvalidInputError) Error() string {
	return e.err.Error()
}

func (e *InvalidInputError) Unwrap() error {
	return e.err
}

type ResourceBusyError struct {
	err error
}

func NewResourceBusyError(err error) *ResourceBusyError {
	return &ResourceBusyError{err: err}
}

func (e *ResourceBusyError) Error() string {
	return e.err.Error()
}

func (e *ResourceBusyError) Unwrap() error {
	return e.err
}

// UpdateInProgressError signals that an update for the bundle is already in
// flight. The rejected call performed no mutation.
type UpdateInProgressError struct {
	BundleID string
}

func NewUpdateInProgressError(bID string) *UpdateInProgressError {
	return &UpdateInProgressError{BundleID: bID}
}

func (e *UpdateInProgressError) Error() string {
	return fmt.Sprintf("update for '%s' already in progress", e.BundleID)
}

// UpdateFailedError signals a failed update after which the previous version
// was restored.
type UpdateFailedError struct {
	BundleID        string
	PreviousVersion string
	err             error
}

func NewUpdateFailedError(bID, prevVer string, err error) *UpdateFailedError {
	return &UpdateFailedError{BundleID: bID, PreviousVersion: prevVer, err: err}
}

func (e *UpdateFailedError) Error() string {
	return fmt.Sprintf("updating '%s' failed: %s. Rolled back to %s", e.BundleID, e.err, e.PreviousVersion)
}

func (e *UpdateFailedError) Unwrap() error {
	return e.err
}

// RollbackFailedError signals a failed update whose rollback also failed. The
// installed state of the bundle is undefined.
type RollbackFailedError struct {
	BundleID string
	err      error
}

func NewRollbackFailedError(bID string, err error) *RollbackFailedError {
	return &RollbackFailedError{BundleID: bID, err: err}
}

func (e *RollbackFailedError) Error() string {
	return fmt.Sprintf("updating '%s' failed and rollback did not succeed: %s. Please reinstall the bundle manually", e.BundleID, e.err)
}

func (e *RollbackFailedError) Unwrap() error {
	return e.err
}

type NotInstalledError struct {
	BundleID string
	Scope    Scope
}

func NewNotInstalledError(bID string, scope Scope) *NotInstalledError {
	return &NotInstalledError{BundleID: bID, Scope: scope}
}

func (e *NotInstalledError) Error() string {
	if e.Scope != "" {
		return fmt.Sprintf("'%s' not installed at scope '%s'", e.BundleID, e.Scope)
	}
	return fmt.Sprintf("'%s' not installed", e.BundleID)
}

type AlreadyInstalledError struct {
	BundleID string
	Version  string
	Scope    Scope
}

func NewAlreadyInstalledError(bID, version string, scope Scope) *AlreadyInstalledError {
	return &AlreadyInstalledError{BundleID: bID, Version: version, Scope: scope}
}

func (e *AlreadyInstalledError) Error() string {
	return fmt.Sprintf("'%s' already installed in version '%s' at scope '%s'", e.BundleID, e.Version, e.Scope)
}
