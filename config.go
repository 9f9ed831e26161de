package fsbench

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"go.yaml.in/yaml/v3"
)

// DefaultConfig is the configuration reference that selects the local
// file system without reading any resource.
const DefaultConfig = "DEFAULT"

// Recognised configuration keys.
const (
	KeyDefaultFS = "fs.defaultFS"

	KeyMemAppendSupported = "fs.mem.append.supported"

	KeyS3Region          = "fs.s3.region"
	KeyS3Endpoint        = "fs.s3.endpoint"
	KeyS3AccessKey       = "fs.s3.access.key"
	KeyS3SecretKey       = "fs.s3.secret.key"
	KeyS3PathStyleAccess = "fs.s3.path.style.access"

	KeyMinioEndpoint  = "fs.minio.endpoint"
	KeyMinioAccessKey = "fs.minio.access.key"
	KeyMinioSecretKey = "fs.minio.secret.key"
	KeyMinioSecure    = "fs.minio.secure"
	KeyMinioRegion    = "fs.minio.region"
)

// Properties is a flat key/value view of a file system configuration.
type Properties map[string]string

// DefaultProperties selects the local file system.
func DefaultProperties() Properties {
	return Properties{KeyDefaultFS: "file:///"}
}

// Get returns the value for key, or "" if unset.
func (p Properties) Get(key string) string {
	return p[key]
}

// GetOr returns the value for key, or def if unset or empty.
func (p Properties) GetOr(key, def string) string {
	if v := p[key]; v != "" {
		return v
	}
	return def
}

// Bool parses key as a boolean. def is returned if the key is unset.
func (p Properties) Bool(key string, def bool) (bool, error) {
	v, ok := p[key]
	if !ok || v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	if err != nil {
		return def, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}

// Keys returns all keys in sorted order.
func (p Properties) Keys() []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// LoadProperties reads a configuration resource. Files ending in .yaml or
// .yml are parsed as YAML (nested maps are flattened with "."); everything
// else is parsed as a Hadoop-style XML configuration:
//
//	<configuration>
//	  <property>
//	    <name>fs.defaultFS</name>
//	    <value>s3://bucket/prefix</value>
//	  </property>
//	</configuration>
//
// A missing, unreadable or malformed resource yields a *ConfigurationError.
func LoadProperties(path string) (Properties, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ConfigurationError{Path: path, cause: err}
	}

	var props Properties
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		props, err = parseYAML(data)
	default:
		props, err = parseXML(data)
	}
	if err != nil {
		return nil, &ConfigurationError{Path: path, cause: err}
	}
	return props, nil
}

type xmlConfiguration struct {
	XMLName    xml.Name      `xml:"configuration"`
	Properties []xmlProperty `xml:"property"`
}

type xmlProperty struct {
	Name  string `xml:"name"`
	Value string `xml:"value"`
}

func parseXML(data []byte) (Properties, error) {
	var conf xmlConfiguration
	dec := xml.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&conf); err != nil {
		return nil, fmt.Errorf("parse xml: %w", err)
	}

	props := make(Properties, len(conf.Properties))
	for _, p := range conf.Properties {
		name := strings.TrimSpace(p.Name)
		if name == "" {
			return nil, fmt.Errorf("parse xml: property without name")
		}
		props[name] = strings.TrimSpace(p.Value)
	}
	return props, nil
}

func parseYAML(data []byte) (Properties, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}

	props := make(Properties)
	flatten("", raw, props)
	return props, nil
}

func flatten(prefix string, m map[string]any, out Properties) {
	for k, v := range m {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		switch val := v.(type) {
		case map[string]any:
			flatten(key, val, out)
		case nil:
			out[key] = ""
		default:
			out[key] = fmt.Sprint(val)
		}
	}
}
