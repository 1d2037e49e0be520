// Command toon converts between JSON, YAML and TOON formats.
//
// The positional argument is probed as a file path first, then as an
// http(s) URL, and finally taken as an inline literal:
//
//	toon encode data.json
//	toon e https://api.example.com/users
//	toon d -o yaml 'tags[3]: rust,serde,parser'
package main

import (
	"bytes"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/fatih/color"
	json "github.com/goccy/go-json"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
	yaml "gopkg.in/yaml.v2"

	"github.com/d1ced/toon"
)

const userAgent = "toon-cli/0.1.0"

var log = logrus.New()

func main() {
	app := &cli.App{
		Name:  "toon",
		Usage: "convert between JSON, YAML and TOON formats",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "verbose", Usage: "enable debug logging"},
		},
		Before: func(c *cli.Context) error {
			log.SetOutput(os.Stderr)
			if c.Bool("verbose") {
				log.SetLevel(logrus.DebugLevel)
			}
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:      "encode",
				Aliases:   []string{"e"},
				Usage:     "encode JSON or YAML to TOON",
				ArgsUsage: "<file|url|literal>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "from", Value: "json", Usage: "input format: json or yaml"},
					&cli.IntFlag{Name: "indent", Value: 2, Usage: "spaces per indentation level"},
					&cli.StringFlag{Name: "delimiter", Value: "comma", Usage: "array delimiter: comma, tab or pipe"},
					&cli.StringFlag{Name: "key-folding", Value: "off", Usage: "key folding mode: off or safe"},
					&cli.IntFlag{Name: "flatten-depth", Usage: "maximum folded path segments"},
				},
				Action: runEncode,
			},
			{
				Name:      "decode",
				Aliases:   []string{"d"},
				Usage:     "decode TOON to JSON or YAML",
				ArgsUsage: "<file|url|literal>",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "indent", Value: 2, Usage: "spaces per indentation level"},
					&cli.BoolFlag{Name: "strict", Usage: "enable strict validation"},
					&cli.StringFlag{Name: "expand-paths", Value: "off", Usage: "path expansion mode: off or safe"},
					&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Value: "json", Usage: "output format: json or yaml"},
				},
				Action: runDecode,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		color.New(color.FgRed).Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func runEncode(c *cli.Context) error {
	if c.NArg() != 1 {
		return errors.New("encode requires exactly one input argument")
	}
	data, err := resolveInput(c.Args().First())
	if err != nil {
		return err
	}

	var node *toon.Node
	switch c.String("from") {
	case "json":
		node, err = toon.NewJSONNode(data)
	case "yaml":
		node, err = toon.NewYAMLNode(data)
	default:
		return errors.Errorf("unknown input format %q", c.String("from"))
	}
	if err != nil {
		return err
	}

	opts := toon.DefaultEncoderOptions()
	opts.Indent = c.Int("indent")
	if opts.Delimiter, err = parseDelimiter(c.String("delimiter")); err != nil {
		return err
	}
	switch c.String("key-folding") {
	case "off":
		opts.KeyFolding = toon.FoldOff
	case "safe":
		opts.KeyFolding = toon.FoldSafe
	default:
		return errors.Errorf("unknown key folding mode %q", c.String("key-folding"))
	}
	if c.IsSet("flatten-depth") {
		opts.FlattenDepth = c.Int("flatten-depth")
	}

	out, err := toon.EncodeWith(node, opts)
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(out)
	return err
}

func runDecode(c *cli.Context) error {
	if c.NArg() != 1 {
		return errors.New("decode requires exactly one input argument")
	}
	data, err := resolveInput(c.Args().First())
	if err != nil {
		return err
	}

	opts := toon.DefaultDecoderOptions()
	opts.Indent = c.Int("indent")
	opts.Strict = c.Bool("strict")
	switch c.String("expand-paths") {
	case "off":
		opts.ExpandPaths = toon.ExpandOff
	case "safe":
		opts.ExpandPaths = toon.ExpandSafe
	default:
		return errors.Errorf("unknown path expansion mode %q", c.String("expand-paths"))
	}

	node, err := toon.DecodeWith(data, opts)
	if err != nil {
		return err
	}

	switch c.String("output") {
	case "json":
		compact, err := node.MarshalJSON()
		if err != nil {
			return err
		}
		pretty := &bytes.Buffer{}
		if err := json.Indent(pretty, compact, "", "  "); err != nil {
			return errors.Wrap(err, "formatting JSON")
		}
		_, err = os.Stdout.Write(pretty.Bytes())
		return err
	case "yaml":
		out, err := yaml.Marshal(node)
		if err != nil {
			return errors.Wrap(err, "encoding YAML")
		}
		_, err = os.Stdout.Write(out)
		return err
	default:
		return errors.Errorf("unknown output format %q", c.String("output"))
	}
}

func parseDelimiter(s string) (toon.Delimiter, error) {
	switch s {
	case "comma":
		return toon.Comma, nil
	case "tab":
		return toon.Tab, nil
	case "pipe":
		return toon.Pipe, nil
	default:
		return toon.Comma, errors.Errorf("unknown delimiter %q", s)
	}
}

// resolveInput probes the positional argument: an existing file wins,
// then an http(s) URL, otherwise the argument itself is the document.
func resolveInput(arg string) ([]byte, error) {
	if fi, err := os.Stat(arg); err == nil && !fi.IsDir() {
		log.Debugf("reading file %s", arg)
		data, err := os.ReadFile(arg)
		return data, errors.Wrap(err, "reading input file")
	}
	if strings.HasPrefix(arg, "http://") || strings.HasPrefix(arg, "https://") {
		log.Debugf("fetching %s", arg)
		return download(arg)
	}
	log.Debug("using argument as inline document")
	return []byte(arg), nil
}

func download(url string) ([]byte, error) {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrap(err, "building request")
	}
	req.Header.Set("User-Agent", userAgent)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "fetching input")
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("fetching input: unexpected status %s", resp.Status)
	}
	data, err := io.ReadAll(resp.Body)
	return data, errors.Wrap(err, "reading response")
}
