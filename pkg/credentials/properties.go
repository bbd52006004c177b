package credentials

import (
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/tidwall/gjson"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// VCAPServicesEnvVar holds Cloud Foundry service bindings as JSON.
const VCAPServicesEnvVar = "VCAP_SERVICES"

// ReadServiceProperties returns the properties configured for serviceName. Sources are
// consulted in order and the first one that yields anything wins: the credentials file,
// the process environment, then VCAP_SERVICES. Property names are returned in camelCase
// with the service prefix removed, e.g. MY_SERVICE_DISABLE_SSL becomes disableSsl.
func ReadServiceProperties(serviceName string) (map[string]string, error) {
	return NewLocator().ReadServiceProperties(serviceName)
}

// ReadServiceProperties is the Locator-bound form of the package function.
func (l *Locator) ReadServiceProperties(serviceName string) (map[string]string, error) {
	record, err := l.Locate()
	if err != nil {
		return nil, err
	}
	if props := filterByServiceName(record, serviceName); len(props) > 0 {
		log.Debug().Str("service", serviceName).Msg("service properties read from credentials file")
		return props, nil
	}

	if props := filterByServiceName(l.environ(), serviceName); len(props) > 0 {
		log.Debug().Str("service", serviceName).Msg("service properties read from environment")
		return props, nil
	}

	vcap, _ := l.LookupEnv(VCAPServicesEnvVar)
	props, err := propertiesFromVCAP(vcap, serviceName)
	if err != nil {
		return nil, err
	}
	if len(props) > 0 {
		log.Debug().Str("service", serviceName).Msg("service properties read from VCAP_SERVICES")
	}
	return props, nil
}

func (l *Locator) environ() map[string]string {
	environ := l.Environ
	if environ == nil {
		environ = os.Environ
	}
	env := make(map[string]string)
	for _, kv := range environ() {
		k, _, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		// LookupEnv has the final say on the value
		if v, found := l.LookupEnv(k); found {
			env[k] = v
		}
	}
	return env
}

// ServicePrefix returns the variable prefix for a service, e.g. "my-service" gives "MY_SERVICE_".
func ServicePrefix(serviceName string) string {
	return strings.ToUpper(strings.ReplaceAll(serviceName, "-", "_")) + "_"
}

func filterByServiceName(values map[string]string, serviceName string) map[string]string {
	prefix := ServicePrefix(serviceName)
	props := make(map[string]string)
	for k, v := range values {
		if !strings.HasPrefix(k, prefix) || len(k) == len(prefix) {
			continue
		}
		props[CamelCase(k[len(prefix):])] = v
	}
	return props
}

// CamelCase converts an upper snake case name such as DISABLE_SSL to disableSsl.
func CamelCase(name string) string {
	parts := strings.Split(strings.ToLower(name), "_")
	caser := cases.Title(language.Und)
	var b strings.Builder
	for i, p := range parts {
		if p == "" {
			continue
		}
		if i == 0 || b.Len() == 0 {
			b.WriteString(p)
			continue
		}
		b.WriteString(caser.String(p))
	}
	return b.String()
}

var vcapCredentialKeys = []string{"url", "apikey", "username", "password"}

func propertiesFromVCAP(vcap string, serviceName string) (map[string]string, error) {
	if vcap == "" {
		return map[string]string{}, nil
	}
	if !gjson.Valid(vcap) {
		return nil, ErrInvalidVCAPServices.Msg("VCAP_SERVICES does not contain valid JSON")
	}

	var creds gjson.Result
	gjson.Parse(vcap).ForEach(func(_, entries gjson.Result) bool {
		entries.ForEach(func(_, entry gjson.Result) bool {
			if entry.Get("name").String() == serviceName {
				creds = entry.Get("credentials")
				return false
			}
			return true
		})
		return !creds.Exists()
	})
	if !creds.Exists() {
		creds = gjson.Get(vcap, gjson.Escape(serviceName)+".0.credentials")
	}

	props := make(map[string]string)
	if !creds.Exists() {
		return props, nil
	}
	for _, key := range vcapCredentialKeys {
		if v := creds.Get(key); v.Exists() && v.String() != "" {
			props[key] = v.String()
		}
	}
	return props, nil
}
