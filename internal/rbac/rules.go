package rbac

// Default policy. Students run sessions; teachers own tests and read
// aggregated results.
var RolePermissions = map[string][]string{
	"student": {
		"test:view",
		"session:start",
		"session:answer",
		"session:resume",
		"session:abandon",
		"asset:view",
	},
	"teacher": {
		"test:view",
		"test:create",
		"stats:view",
		"results:view",
		"asset:*",
	},
	"admin": {
		"*", // everything
	},
}
