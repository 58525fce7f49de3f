package rbac

// Default policy. Respondents take quizzes and read their own history;
// authors own the editing and review surfaces.
var RolePermissions = map[string][]string{
	"respondent": {
		"quiz:view",
		"response:submit",
		"response:view-own",
		"user:change_password",
	},
	"author": {
		"quiz:create",
		"quiz:view",
		"quiz:delete_own",
		"quiz:import",
		"quiz:export",
		"response:view-all",
		"response:view-own",
		"asset:upload",
		"user:change_password",
	},
	"admin": {
		"*", // everything
	},
}
