// Package auth provides authentication and authorization for the back office.
//
// Authentication is local only: users log in with an email/password pair and
// passwords are hashed with Argon2id. LocalProvider wraps account management
// (create, activate, password changes) on top of the users table.
//
// # Authorization model
//
// Authorization is deliberately small:
//   - Every user holds at most one role, linked through the user_roles table.
//   - A role flagged IsAdmin grants full administrative capability, including
//     the entire navigation catalog.
//   - Non-admin visibility is an explicit per-user allow-list of menu keys
//     stored in user_menu_access. A user sees exactly the screens on their
//     list, nothing more.
//
// The Service type answers the two questions handlers ask:
//   - IsAdmin: does this user hold an admin-flagged role?
//   - CanSeeMenu / VisibleMenu: which navigation entries may this user open?
//
// # Middleware
//
// Fiber middleware functions are provided for route protection:
//   - RequireAdmin: protect routes reserved for administrators
//   - RequireMenu: protect a screen behind its navigation key
//
// Example usage:
//
//	authService := auth.NewService(db)
//
//	app.Get("/admin/user",
//	    auth.RequireMenu(authService, navigation.KeyUsers),
//	    handler,
//	)
package auth
