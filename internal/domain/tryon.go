package domain

// ReferenceImage is one uploaded reference asset (model, garment or
// accessory). The ID must be unique within its own category list.
type ReferenceImage struct {
	ID   string
	Name string
	MIME string
	Data []byte
}

// CompositionJob is one (model, garment, optional accessory) combination.
type CompositionJob struct {
	Model     ReferenceImage
	Garment   ReferenceImage
	Accessory *ReferenceImage
}

// ID is the job identity: the concatenation of the participating asset IDs.
func (j CompositionJob) ID() string {
	id := j.Model.ID + j.Garment.ID
	if j.Accessory != nil {
		id += j.Accessory.ID
	}
	return id
}

// Refs returns the reference images bundled into every upstream request for
// this job, model first, then garment, then the accessory when present.
func (j CompositionJob) Refs() []ReferenceImage {
	refs := []ReferenceImage{j.Model, j.Garment}
	if j.Accessory != nil {
		refs = append(refs, *j.Accessory)
	}
	return refs
}

// GeneratedImage is one composed output image. The label comes from the
// template that produced it, never from the server.
type GeneratedImage struct {
	Label string `json:"label"`
	MIME  string `json:"mime"`
	Data  []byte `json:"data"`
}

// CompositionResult is the fixed-size ordered output of one finished job.
type CompositionResult struct {
	JobID  string           `json:"job_id"`
	Images []GeneratedImage `json:"images"`
}
