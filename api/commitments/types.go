// Copyright (c) 2025 The Arkive developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package commitments

import "github.com/arkive-net/arkive/arkive"

// CommitRequest is the body of POST /commitments. One content identifier takes
// the single-commit path, several take the batch path.
type CommitRequest struct {
	Operator   arkive.Address   `json:"operator"`
	ContentIDs []arkive.Bytes32 `json:"contentIds"`
}

// ArchiverList is the commit index entry for one content identifier. The list
// is the raw append log, it may contain duplicates and inactive operators.
type ArchiverList struct {
	ContentID arkive.Bytes32   `json:"contentId"`
	Archivers []arkive.Address `json:"archivers"`
}
