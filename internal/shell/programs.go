package shell

// programInfo describes the subcommand shape of a known CLI: how deep its
// subcommand hierarchy goes and which tokens can appear on the path.
type programInfo struct {
	maxDepth int
	tokens   map[string]struct{}
}

// programTable is static per-program knowledge, hand-curated for widely used
// CLIs. It is pure data: extending it never touches the scan in analyze.
//
// TODO: allow loading extra table entries from the profiles directory so new
// CLIs can be covered without a release.
var programTable = map[string]programInfo{
	"git": {
		maxDepth: 2,
		tokens: tokenSet(
			"add", "am", "archive", "bisect", "blame", "branch", "bundle",
			"checkout", "cherry", "cherry-pick", "citool", "clean", "clone",
			"commit", "config", "describe", "diff", "difftool", "fetch",
			"format-patch", "gc", "grep", "gui", "help", "init", "log",
			"merge", "mergetool", "mv", "notes", "pull", "push", "rebase",
			"reflog", "remote", "reset", "restore", "revert", "rm",
			"shortlog", "show", "stash", "status", "submodule", "switch",
			"tag", "worktree",
			// second-level tokens (remote, stash, ...)
			"set-url", "get-url", "show-ref", "update-ref", "apply", "drop",
			"list", "pop", "save", "clear", "prune", "update", "set-head",
			"rename", "remove",
		),
	},
	"docker": {
		maxDepth: 2,
		tokens: tokenSet(
			"build", "compose", "container", "context", "image", "network",
			"node", "plugin", "run", "secret", "service", "stack", "swarm",
			"system", "trust", "volume", "attach", "commit", "cp", "create",
			"diff", "events", "exec", "export", "history", "images",
			"import", "info", "inspect", "kill", "load", "login", "logout",
			"logs", "pause", "port", "ps", "pull", "push", "rename",
			"restart", "rm", "rmi", "save", "search", "start", "stats",
			"stop", "tag", "top", "unpause", "update", "version", "wait",
			// compose tokens
			"up", "down", "config", "scale",
		),
	},
	"kubectl": {
		maxDepth: 2,
		tokens: tokenSet(
			"alpha", "annotate", "api-resources", "api-versions", "apply",
			"attach", "auth", "autoscale", "certificate", "cluster-info",
			"completion", "config", "cordon", "cp", "create", "debug",
			"delete", "describe", "diff", "drain", "edit", "exec",
			"explain", "expose", "get", "kustomize", "label", "logs",
			"options", "patch", "plugin", "port-forward", "proxy",
			"replace", "rollout", "run", "scale", "set", "taint", "top",
			"uncordon", "version", "wait",
			// config tokens
			"view", "get-contexts", "current-context", "get-clusters",
			"get-users", "set-context", "set-cluster", "set-credentials",
			"use-context", "delete-context", "delete-cluster",
			"delete-user", "rename-context",
			// auth tokens
			"can-i", "whoami",
			// rollout tokens
			"status", "history", "restart", "undo", "pause", "resume",
		),
	},
	"terraform": {
		maxDepth: 2,
		tokens: tokenSet(
			"apply", "console", "destroy", "fmt", "force-unlock", "get",
			"graph", "import", "init", "login", "logout", "metadata",
			"output", "plan", "providers", "refresh", "show", "state",
			"taint", "test", "untaint", "validate", "version", "workspace",
			// state tokens
			"list", "mv", "pull", "push", "replace-provider", "rm",
			// workspace tokens
			"delete", "new", "select",
			// providers tokens
			"lock", "mirror", "schema",
		),
	},
	"cargo": {
		maxDepth: 1,
		tokens: tokenSet(
			"add", "bench", "build", "check", "clean", "clippy", "doc",
			"fetch", "fix", "fmt", "generate-lockfile", "init", "install",
			"locate-project", "login", "logout", "metadata", "new",
			"owner", "package", "pkgid", "publish", "read-manifest",
			"remove", "report", "run", "rustc", "rustdoc", "search",
			"test", "tree", "uninstall", "update", "vendor",
			"verify-project", "version", "yank",
		),
	},
	"npm": {
		maxDepth: 1,
		tokens: tokenSet(
			"access", "adduser", "audit", "bugs", "cache", "ci", "config",
			"dedupe", "deprecate", "diff", "dist-tag", "docs", "doctor",
			"edit", "exec", "explain", "explore", "fund", "help", "init",
			"install", "link", "login", "logout", "ls", "outdated", "owner",
			"pack", "ping", "pkg", "prefix", "prune", "publish", "query",
			"rebuild", "repo", "restart", "root", "run", "search", "start",
			"stop", "test", "token", "uninstall", "unpublish", "update",
			"version", "view", "whoami",
		),
	},
	"helm": {
		maxDepth: 2,
		tokens: tokenSet(
			"completion", "create", "dependency", "env", "get", "history",
			"install", "lint", "package", "plugin", "pull", "push",
			"registry", "repo", "rollback", "search", "show", "status",
			"template", "test", "uninstall", "upgrade", "verify", "version",
			// second-level tokens (repo, dependency, get, ...)
			"add", "index", "list", "remove", "update", "build", "hub",
			"all", "hooks", "manifest", "metadata", "notes", "values",
			"login", "logout", "chart", "readme", "crds",
		),
	},
	"az": {
		maxDepth: 4, // e.g. az storage account keys list
		tokens: tokenSet(
			// top-level groups
			"account", "acr", "ad", "advisor", "aks", "apim", "appconfig",
			"appservice", "backup", "batch", "bicep", "billing", "cdn",
			"cloud", "cognitiveservices", "config", "configure",
			"consumption", "container", "cosmosdb", "deployment", "disk",
			"eventgrid", "eventhubs", "extension", "feature",
			"functionapp", "group", "hdinsight", "identity", "image",
			"iot", "keyvault", "lab", "lock", "login", "logout", "logic",
			"managed-cassandra", "managedapp", "maps", "mariadb", "ml",
			"monitor", "mysql", "netappfiles", "network", "policy",
			"postgres", "ppg", "provider", "redis", "relay",
			"reservations", "resource", "role", "search", "security",
			"servicebus", "sf", "sig", "signalr", "snapshot", "sql",
			"ssh", "sshkey", "staticwebapp", "storage", "synapse", "tag",
			"term", "ts", "version", "vm", "vmss", "webapp",
			// common second-level groups
			"server", "db", "database", "blob", "queue", "table", "file",
			"share", "vnet", "subnet", "nsg", "nic", "lb", "public-ip",
			"private-endpoint", "application-gateway", "firewall", "dns",
			"front-door", "traffic-manager", "express-route",
			"vpn-gateway", "nat", "bastion", "user", "sp", "app",
			"secret", "key", "certificate", "nodepool", "assignment",
			"definition", "repository", "rule", "member", "workspace",
			"activity-log", "log-analytics", "metrics",
			"diagnostic-settings", "action-group", "alert", "autoscale",
			"appsettings", "connection-string", "deployment-slot", "keys",
			"credential",
			// common action verbs
			"list", "show", "create", "delete", "update", "set", "get",
			"add", "remove", "start", "stop", "restart", "scale",
			"upgrade", "resize", "exists", "regenerate", "reset",
			"upload", "download", "copy", "move", "import", "export",
			"restore", "build", "query", "invoke", "run", "wait", "tail",
			"list-defaults", "get-credentials", "get-versions",
			"get-access-token", "show-connection-string",
			"list-locations", "list-ip-addresses", "list-sizes",
			"list-skus", "list-usage", "get-instance-view", "show-tags",
		),
	},
}

func tokenSet(tokens ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		set[t] = struct{}{}
	}
	return set
}
