// Package mock provides deterministic test doubles for the ai interfaces.
//
// The default embedder hashes tokens into vector dimensions, so texts that
// share vocabulary come out similar. Tests can also inject custom behavior
// through function fields to simulate failures or fixed vectors.
package mock
