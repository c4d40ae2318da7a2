// Package service contains the application use cases. It orchestrates the
// domain types and the repositories defined in internal/store.
//
// Key components:
//
// 1. TaskService:
//   - Every operation takes the authenticated caller id and the owner id
//     from the request path
//   - The ownership guard runs first, before any repository access, so a
//     foreign owner is refused whether or not the task exists
//   - Mutations run inside store.RunInTransaction with a bounded timeout
//
// 2. UserService:
//   - Registration hashes the password before opening a transaction
//   - Authentication gives one answer for every kind of credential failure
//
// 3. Error Handling:
//   - Store and domain sentinels pass through wrapped, so the API layer can
//     match them with errors.Is
//   - Unexpected failures are wrapped in TaskServiceError with the operation name
//
// The service layer depends on domain entities and repository interfaces (from store),
// but never on specific infrastructure implementations.
package service
