// Package git versions the prompt document by shelling out to git.
//
// A Repo is bound to the storage directory; every command runs there:
//
//	repo := git.NewRepo(dir, logger)
//	repo.EnsureInitialized([]string{"prompts-system-meta.jsonl"})
//	repo.Commit("Update prompts: deploy", "prompts.md")
//	revs, err := repo.Log(10)
//
// # Error Handling
//
// Failures are *output.ExitError values:
//   - ExitSystemError (2) when git is missing or a command fails
//   - ExitUserError (1) when Show is asked for an unknown revision
package git
