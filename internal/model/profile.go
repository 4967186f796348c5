package model

type Bio struct {
	DisplayName string `json:"display_name"`
	Headline    string `json:"headline"`
	Summary     string `json:"summary"`
	Location    string `json:"location"`
}

type Skill struct {
	ID       string `json:"id"`
	Group    string `json:"group"`
	Name     string `json:"name"`
	Level    string `json:"level"`
	Position int    `json:"position"`
}

type Project struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	TechStack   string `json:"tech_stack"`
	RepoURL     string `json:"repo_url"`
	LiveURL     string `json:"live_url"`
	Position    int    `json:"position"`
}

type Experience struct {
	ID          string `json:"id"`
	Company     string `json:"company"`
	Role        string `json:"role"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	Description string `json:"description"`
	Position    int    `json:"position"`
}

type Contact struct {
	ID       string `json:"id"`
	Group    string `json:"group"`
	Label    string `json:"label"`
	Value    string `json:"value"`
	Position int    `json:"position"`
}

type Trait struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Position    int    `json:"position"`
}

type Certification struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Issuer   string `json:"issuer"`
	Year     string `json:"year"`
	Position int    `json:"position"`
}

type GalleryImage struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	AltText  string `json:"alt_text"`
	Caption  string `json:"caption"`
	URL      string `json:"url"`
	Position int    `json:"position"`
}

type ModelContext struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Content  string `json:"content"`
	Position int    `json:"position"`
}

// ProfileSnapshot is a full read of the profile source of truth, taken once
// per chunking/refresh run so the derived chunks are consistent.
type ProfileSnapshot struct {
	Bio                *Bio            `json:"bio,omitempty"`
	Skills             []Skill         `json:"skills"`
	Projects           []Project       `json:"projects"`
	Experiences        []Experience    `json:"experiences"`
	Contacts           []Contact       `json:"contacts"`
	Traits             []Trait         `json:"traits"`
	Certifications     []Certification `json:"certifications"`
	Images             []GalleryImage  `json:"images"`
	ModelContexts      []ModelContext  `json:"model_contexts"`
	CustomInstructions string          `json:"custom_instructions"`
}
