package pipeline

import (
	"os"
	"regexp"
)

// Secrets resolves ${{ secrets.NAME }} references.
type Secrets interface {
	Get(name string) (string, bool)
}

// EnvSecrets resolves secrets from the process environment, which is
// how a local run stands in for the platform's secret store.
type EnvSecrets struct{}

// Get implements Secrets.
func (EnvSecrets) Get(name string) (string, bool) {
	return os.LookupEnv(name)
}

// MapSecrets resolves secrets from a fixed map.
type MapSecrets map[string]string

// Get implements Secrets.
func (m MapSecrets) Get(name string) (string, bool) {
	v, ok := m[name]
	return v, ok
}

var secretExpr = regexp.MustCompile(`\$\{\{\s*secrets\.([A-Za-z_][A-Za-z0-9_]*)\s*\}\}`)

// EffectiveEnv merges workflow, job, and step env in increasing
// precedence and expands secret references. A run script that exports
// the same variable still wins at execution time, because the shell
// assignment happens after this environment is materialized.
func EffectiveEnv(w *Workflow, job *Job, step *Step, secrets Secrets) map[string]string {
	merged := map[string]string{}
	for _, env := range []map[string]string{w.Env, job.Env, step.Env} {
		for k, v := range env {
			merged[k] = v
		}
	}
	for k, v := range merged {
		merged[k] = ExpandSecrets(v, secrets)
	}
	return merged
}

// ExpandSecrets replaces ${{ secrets.NAME }} references in a value.
// Missing secrets expand to the empty string, matching the platform.
// Expressions from other namespaces are left verbatim.
func ExpandSecrets(value string, secrets Secrets) string {
	return secretExpr.ReplaceAllStringFunc(value, func(match string) string {
		name := secretExpr.FindStringSubmatch(match)[1]
		if secrets == nil {
			return ""
		}
		v, _ := secrets.Get(name)
		return v
	})
}

// SecretRefs returns the names of the secrets a value references.
func SecretRefs(value string) []string {
	var names []string
	for _, match := range secretExpr.FindAllStringSubmatch(value, -1) {
		names = append(names, match[1])
	}
	return names
}
