package corpus

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/google/uuid"
)

// idNamespace keeps document/point ids stable across runs. Same path in,
// same id out - deterministic overwrite is what makes point upserts
// supersede instead of accumulate.
var idNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("policyrag-corpus"))

// DocumentId derives the stable document id from the corpus path.
func DocumentId(path string) string {
	return uuid.NewSHA1(idNamespace, []byte(path)).String()
}

// PointId derives the vector point id for one chunk of a document.
func PointId(path string, seq int) string {
	return uuid.NewSHA1(idNamespace, []byte(fmt.Sprintf("%s#%d", path, seq))).String()
}

// ContentHash fingerprints document content for change detection.
func ContentHash(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}
