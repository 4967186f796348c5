package ai

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/xxxsen/common/logutil"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
	"go.uber.org/zap"

	"github.com/sudhakarkatam/foliochat/internal/model"
)

// Chunker converts a profile snapshot into self-contained retrievable
// chunks. It is deterministic: the same snapshot always yields the same
// ordered list of (id, text) pairs, so a refresh run is safe to repeat.
type Chunker struct{}

func NewChunker() *Chunker {
	return &Chunker{}
}

func (c *Chunker) Chunk(ctx context.Context, snap *model.ProfileSnapshot) []*model.Chunk {
	if snap == nil {
		return nil
	}
	logger := logutil.GetLogger(ctx)
	var chunks []*model.Chunk
	add := func(id string, typ model.ChunkType, title, content string) {
		content = strings.TrimSpace(content)
		if content == "" {
			// nothing derivable, omit instead of emitting placeholder text
			return
		}
		chunks = append(chunks, &model.Chunk{ID: id, Type: typ, Title: title, Text: content})
	}

	name := ""
	if snap.Bio != nil {
		name = strings.TrimSpace(snap.Bio.DisplayName)
		var sb strings.Builder
		if name != "" {
			sb.WriteString("About " + name + ". ")
		}
		if h := strings.TrimSpace(snap.Bio.Headline); h != "" {
			sb.WriteString(h + ". ")
		}
		if s := flattenMarkdown(snap.Bio.Summary); s != "" {
			sb.WriteString(s + " ")
		}
		if loc := strings.TrimSpace(snap.Bio.Location); loc != "" {
			sb.WriteString("Based in " + loc + ".")
		}
		add("bio", model.ChunkTypeBio, name, sb.String())
	}

	for _, grp := range skillGroups(snap.Skills) {
		var parts []string
		for _, skill := range grp.skills {
			if skill.Level != "" {
				parts = append(parts, fmt.Sprintf("%s (%s)", skill.Name, skill.Level))
				continue
			}
			parts = append(parts, skill.Name)
		}
		content := fmt.Sprintf("Skills, %s: %s.", grp.name, strings.Join(parts, ", "))
		add("skill-"+slugify(grp.name), model.ChunkTypeSkill, grp.name, content)
	}

	for _, p := range snap.Projects {
		var sb strings.Builder
		sb.WriteString("Project: " + p.Title + ". ")
		if d := flattenMarkdown(p.Description); d != "" {
			sb.WriteString(d + " ")
		}
		if p.TechStack != "" {
			sb.WriteString("Tech stack: " + p.TechStack + ". ")
		}
		if p.RepoURL != "" {
			sb.WriteString("Repository: " + p.RepoURL + ". ")
		}
		if p.LiveURL != "" {
			sb.WriteString("Live: " + p.LiveURL + ".")
		}
		add("project-"+p.ID, model.ChunkTypeProject, p.Title, sb.String())
	}
	// dedicated whole-list chunk so "all projects" queries don't depend on
	// every individual project chunk ranking in
	if len(snap.Projects) > 0 {
		var sb strings.Builder
		sb.WriteString("All projects")
		if name != "" {
			sb.WriteString(" by " + name)
		}
		sb.WriteString(": ")
		for i, p := range snap.Projects {
			if i > 0 {
				sb.WriteString("; ")
			}
			sb.WriteString(p.Title)
			if link := firstNonEmpty(p.LiveURL, p.RepoURL); link != "" {
				sb.WriteString(" (" + link + ")")
			}
		}
		sb.WriteString(".")
		add("projects-index", model.ChunkTypeProject, "All Projects", sb.String())
	}

	for _, e := range snap.Experiences {
		var sb strings.Builder
		sb.WriteString("Experience: " + e.Role + " at " + e.Company)
		if e.StartDate != "" {
			end := e.EndDate
			if end == "" {
				end = "present"
			}
			sb.WriteString(fmt.Sprintf(" (%s to %s)", e.StartDate, end))
		}
		sb.WriteString(". ")
		sb.WriteString(flattenMarkdown(e.Description))
		add("experience-"+e.ID, model.ChunkTypeExperience, e.Role+" at "+e.Company, sb.String())
	}

	for _, grp := range contactGroups(snap.Contacts) {
		var parts []string
		for _, contact := range grp.contacts {
			parts = append(parts, contact.Label+": "+contact.Value)
		}
		content := fmt.Sprintf("Contact (%s): %s.", grp.name, strings.Join(parts, ", "))
		add("contact-"+slugify(grp.name), model.ChunkTypeContact, grp.name, content)
	}

	for _, t := range snap.Traits {
		content := "Trait: " + t.Name + ". " + flattenMarkdown(t.Description)
		add("trait-"+slugify(t.Name), model.ChunkTypeTrait, t.Name, content)
	}

	for _, cert := range snap.Certifications {
		var sb strings.Builder
		sb.WriteString("Certification: " + cert.Name)
		if cert.Issuer != "" {
			sb.WriteString(", issued by " + cert.Issuer)
		}
		if cert.Year != "" {
			sb.WriteString(" (" + cert.Year + ")")
		}
		sb.WriteString(".")
		add("certification-"+cert.ID, model.ChunkTypeCertification, cert.Name, sb.String())
	}

	for _, img := range snap.Images {
		caption := firstNonEmpty(img.Caption, img.AltText)
		var sb strings.Builder
		sb.WriteString("Image")
		if img.Title != "" {
			sb.WriteString(" \"" + img.Title + "\"")
		}
		if caption != "" {
			sb.WriteString(": " + caption)
		}
		if img.URL != "" {
			sb.WriteString(" (" + img.URL + ")")
		}
		if caption == "" && img.Title == "" {
			// a bare URL carries nothing worth retrieving
			continue
		}
		add("image-"+img.ID, model.ChunkTypeImage, img.Title, sb.String())
	}

	for _, mc := range snap.ModelContexts {
		content := "Context note \"" + mc.Name + "\": " + strings.TrimSpace(mc.Content)
		add("model-context-"+slugify(mc.Name), model.ChunkTypeModelContext, mc.Name, content)
	}

	for _, section := range splitSections(snap.CustomInstructions) {
		id := "custom-" + slugify(section.header)
		content := section.body
		if section.header != "" {
			content = section.header + ": " + section.body
		}
		add(id, model.ChunkTypeCustom, section.header, content)
	}

	logger.Info("profile chunked", zap.Int("chunks", len(chunks)))
	return chunks
}

type skillGroup struct {
	name   string
	skills []model.Skill
}

// skillGroups buckets skills by group, preserving first-seen order so chunk
// order stays stable.
func skillGroups(skills []model.Skill) []skillGroup {
	var groups []skillGroup
	index := map[string]int{}
	for _, skill := range skills {
		grp := strings.TrimSpace(skill.Group)
		if grp == "" {
			grp = "General"
		}
		i, ok := index[grp]
		if !ok {
			i = len(groups)
			index[grp] = i
			groups = append(groups, skillGroup{name: grp})
		}
		groups[i].skills = append(groups[i].skills, skill)
	}
	return groups
}

type contactGroup struct {
	name     string
	contacts []model.Contact
}

func contactGroups(contacts []model.Contact) []contactGroup {
	var groups []contactGroup
	index := map[string]int{}
	for _, contact := range contacts {
		grp := strings.TrimSpace(contact.Group)
		if grp == "" {
			grp = "General"
		}
		i, ok := index[grp]
		if !ok {
			i = len(groups)
			index[grp] = i
			groups = append(groups, contactGroup{name: grp})
		}
		groups[i].contacts = append(groups[i].contacts, contact)
	}
	return groups
}

type customSection struct {
	header string
	body   string
}

// sectionHeader matches an all-caps label followed by a colon at the start
// of a line, e.g. "TONE:" or "LINK POLICY:".
var sectionHeader = regexp.MustCompile(`^([A-Z][A-Z0-9 /&_-]{1,60}):\s*(.*)$`)

// splitSections breaks free-text custom instructions into sections, one per
// all-caps header. Text before the first header becomes its own section.
func splitSections(input string) []customSection {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil
	}
	var sections []customSection
	current := customSection{header: "intro"}
	var body []string
	flush := func() {
		current.body = strings.TrimSpace(strings.Join(body, "\n"))
		if current.body != "" {
			sections = append(sections, current)
		}
		body = nil
	}
	for _, line := range strings.Split(input, "\n") {
		if m := sectionHeader.FindStringSubmatch(strings.TrimRight(line, " \t")); m != nil {
			flush()
			current = customSection{header: strings.TrimSpace(m[1])}
			if rest := strings.TrimSpace(m[2]); rest != "" {
				body = append(body, rest)
			}
			continue
		}
		body = append(body, line)
	}
	flush()
	return sections
}

func slugify(s string) string {
	var sb strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			sb.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				sb.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.TrimSuffix(sb.String(), "-")
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

// flattenMarkdown reduces a markdown field to plain text so embedding input
// is free of formatting noise.
func flattenMarkdown(input string) string {
	input = strings.TrimSpace(input)
	if input == "" {
		return ""
	}
	md := goldmark.New()
	source := []byte(input)
	doc := md.Parser().Parse(text.NewReader(source))
	var parts []string
	for node := doc.FirstChild(); node != nil; node = node.NextSibling() {
		if txt := extractText(node, source); txt != "" {
			parts = append(parts, txt)
		}
	}
	if len(parts) == 0 {
		return input
	}
	return strings.Join(parts, " ")
}

func extractText(n ast.Node, source []byte) string {
	var sb strings.Builder
	ast.Walk(n, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch v := node.(type) {
		case *ast.Text:
			sb.Write(v.Segment.Value(source))
			if v.SoftLineBreak() || v.HardLineBreak() {
				sb.WriteByte(' ')
			}
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(sb.String())
}
