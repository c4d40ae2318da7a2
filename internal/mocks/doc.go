// Package mocks provides shared test doubles for the service and API layers.
//
// Two styles are used:
//
//   - Function-field mocks (MockJWTService, MockPasswordHasher) for leaf
//     components where a test usually wants one canned answer.
//   - testify/mock mocks (TestifyMockUserStore, TestifyMockTaskStore) for
//     stores, where tests assert which calls were made and which were not.
//
// Usage:
//
//	tasks := new(mocks.TestifyMockTaskStore)
//	tasks.On("GetByID", mock.Anything, ownerID, taskID).Return(task, nil)
//	...
//	tasks.AssertExpectations(t)
//
// The store mocks return themselves from WithTx, so expectations set before
// a transaction starts also cover calls made inside it.
package mocks
