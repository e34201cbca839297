// Copyright 2025 Sembox Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package storage

import "errors"

var (
	// ErrNotFound is returned when a document does not exist.
	ErrNotFound = errors.New("document not found")

	// ErrNilDocument is returned when a nil document is passed to a write.
	ErrNilDocument = errors.New("nil document")

	// ErrCorruptRecord is returned when a stored value cannot be decoded.
	ErrCorruptRecord = errors.New("corrupt record")

	// ErrBadSnapshot is returned when a snapshot file is not recognized.
	ErrBadSnapshot = errors.New("bad snapshot file")

	// ErrSnapshotVersion is returned when a snapshot was written by an
	// incompatible format version.
	ErrSnapshotVersion = errors.New("unsupported snapshot version")

	// ErrChecksumMismatch is returned when a snapshot's payload does not
	// match its recorded checksum.
	ErrChecksumMismatch = errors.New("snapshot checksum mismatch")
)
