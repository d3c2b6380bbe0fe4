package clustering

import "sort"

// Cluster lists the members of one cluster
type Cluster struct {
	ID      int      `json:"id"`
	Size    int      `json:"size"`
	Members []string `json:"members"`
}

// Summarize groups names by label, ordered by cluster id. Each cluster shows
// at most maxPerCluster members in input order; maxPerCluster <= 0 shows all.
func Summarize(names []string, labels []int, maxPerCluster int) []Cluster {
	byID := make(map[int]*Cluster)
	for i, label := range labels {
		if i >= len(names) {
			break
		}
		c, ok := byID[label]
		if !ok {
			c = &Cluster{ID: label, Members: []string{}}
			byID[label] = c
		}
		c.Size++
		if maxPerCluster <= 0 || len(c.Members) < maxPerCluster {
			c.Members = append(c.Members, names[i])
		}
	}

	clusters := make([]Cluster, 0, len(byID))
	for _, c := range byID {
		clusters = append(clusters, *c)
	}
	sort.Slice(clusters, func(i, j int) bool {
		return clusters[i].ID < clusters[j].ID
	})
	return clusters
}
