package badger

import "fmt"

// Key prefixes for different data types
const (
	documentPrefix     = "maildoc"
	documentHashPrefix = "maildoch"
	documentFldPrefix  = "maildocf"
)

// makeDocumentKey generates a key for a document by uid.
func makeDocumentKey(uid string) []byte {
	return []byte(fmt.Sprintf("%s:%s", documentPrefix, uid))
}

// makeDocumentHashKey generates a key for a document's content hash.
func makeDocumentHashKey(uid string) []byte {
	return []byte(fmt.Sprintf("%s:%s", documentHashPrefix, uid))
}

// makeFolderKey generates a composite key for the folder index.
// Format: prefix:folder:uid
func makeFolderKey(folder, uid string) []byte {
	return []byte(fmt.Sprintf("%s:%s:%s", documentFldPrefix, folder, uid))
}

// makePartialFolderKey generates a partial key for folder scans.
func makePartialFolderKey(folder string) []byte {
	return []byte(fmt.Sprintf("%s:%s:", documentFldPrefix, folder))
}

func documentKeyPrefix() []byte {
	return []byte(documentPrefix + ":")
}
