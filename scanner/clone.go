package scanner

import (
	"github.com/latticeyaml/yamlcore/internal/parserc"
	"github.com/latticeyaml/yamlcore/internal/yamlh"
)

// cloneParser deep-copies everything in a YamlParser that Restore could
// otherwise mutate out from under a live snapshot: every slice and map
// field gets its own backing array, so resuming one clone never affects
// another. Reader is left for the caller to repoint at a cloned retainer.
func cloneParser(p *parserc.YamlParser) parserc.YamlParser {
	c := *p

	c.Input = append([]byte(nil), p.Input...)
	c.Buffer = append([]byte(nil), p.Buffer...)
	c.Raw_buffer = append([]byte(nil), p.Raw_buffer...)

	c.Head_comment = append([]byte(nil), p.Head_comment...)
	c.Line_comment = append([]byte(nil), p.Line_comment...)
	c.Foot_comment = append([]byte(nil), p.Foot_comment...)
	c.Tail_comment = append([]byte(nil), p.Tail_comment...)
	c.Stem_comment = append([]byte(nil), p.Stem_comment...)

	c.Comments = append([]yamlh.YamlComment(nil), p.Comments...)
	for i, cm := range c.Comments {
		c.Comments[i].Head = append([]byte(nil), cm.Head...)
		c.Comments[i].Line = append([]byte(nil), cm.Line...)
		c.Comments[i].Foot = append([]byte(nil), cm.Foot...)
	}

	c.Tokens = append([]yamlh.YamlToken(nil), p.Tokens...)
	for i, tok := range c.Tokens {
		c.Tokens[i].Value = append([]byte(nil), tok.Value...)
		c.Tokens[i].Suffix = append([]byte(nil), tok.Suffix...)
		c.Tokens[i].Prefix = append([]byte(nil), tok.Prefix...)
	}

	c.Indents = append([]int(nil), p.Indents...)
	c.Simple_keys = append([]yamlh.SimpleKey(nil), p.Simple_keys...)
	if p.Simple_keys_by_tok != nil {
		c.Simple_keys_by_tok = make(map[int]int, len(p.Simple_keys_by_tok))
		for k, v := range p.Simple_keys_by_tok {
			c.Simple_keys_by_tok[k] = v
		}
	}

	c.States = append([]parserc.ParserState(nil), p.States...)
	c.Marks = append([]yamlh.Position(nil), p.Marks...)

	c.Tag_directives = append([]yamlh.TagDirective(nil), p.Tag_directives...)
	for i, td := range c.Tag_directives {
		c.Tag_directives[i].Handle = append([]byte(nil), td.Handle...)
		c.Tag_directives[i].Prefix = append([]byte(nil), td.Prefix...)
	}

	return c
}
